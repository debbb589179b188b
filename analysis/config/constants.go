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

package config

const (
	// DefaultCorner is the name of the corner used when the config file does not list any
	DefaultCorner = "default"
	// SrcPathFirst keeps the first source path recorded for a generated clock pin, transition and analysis point
	SrcPathFirst = "first"
	// SrcPathWorst keeps the source path with the worst arrival for the analysis point
	SrcPathWorst = "worst"
)
