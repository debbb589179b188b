// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package genclks

import "errors"

var (
	// ErrNoMasterClock is returned for a generated clock without a declared master whose source pin is not reached
	// by any clock
	ErrNoMasterClock = errors.New("no master clock found")

	// ErrMultipleMasterClocks is returned for a generated clock without a declared master whose source pin is
	// reached by several clocks
	ErrMultipleMasterClocks = errors.New("source pin is in the fanout of multiple clocks")

	// ErrMasterCycle is returned for a generated clock that is its own master, directly or through other generated
	// clocks
	ErrMasterCycle = errors.New("master clock cycle")

	// ErrNotGenerated is returned when a generated clock operation is applied to a primary clock
	ErrNotGenerated = errors.New("not a generated clock")
)
