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

package sdc

import "github.com/awslabs/ar-sta-tools/analysis/timing"

// RiseFall is a signal transition
type RiseFall int

const (
	Rise RiseFall = iota
	Fall
)

// RiseFallCount is the number of transitions
const RiseFallCount = 2

var riseFalls = []RiseFall{Rise, Fall}

// RiseFalls returns the transitions in index order
func RiseFalls() []RiseFall { return riseFalls }

// Index returns the dense index of the transition
func (rf RiseFall) Index() int { return int(rf) }

// TimingIndex returns the transition index used by timing arcs
func (rf RiseFall) TimingIndex() timing.RiseFallIndex { return timing.RiseFallIndex(rf) }

// FromTimingIndex converts a timing arc transition index
func FromTimingIndex(i timing.RiseFallIndex) RiseFall { return RiseFall(i) }

// Opposite returns the other transition
func (rf RiseFall) Opposite() RiseFall {
	if rf == Rise {
		return Fall
	}
	return Rise
}

func (rf RiseFall) String() string {
	if rf == Rise {
		return "rise"
	}
	return "fall"
}

// ParseRiseFall returns the transition named s ("rise", "fall", "r" or "f")
func ParseRiseFall(s string) (RiseFall, bool) {
	switch s {
	case "rise", "r", "^":
		return Rise, true
	case "fall", "f", "v":
		return Fall, true
	}
	return Rise, false
}

// MinMax selects the minimum or maximum of delays. Early is min and late is max.
type MinMax int

// EarlyLate is the MinMax used for clock insertion and latency
type EarlyLate = MinMax

const (
	Min MinMax = iota
	Max
)

const (
	Early = Min
	Late  = Max
)

// MinMaxCount is the number of MinMax values
const MinMaxCount = 2

// Index returns the dense index of the MinMax
func (mm MinMax) Index() int { return int(mm) }

func (mm MinMax) String() string {
	if mm == Min {
		return "min"
	}
	return "max"
}

// Greater returns true if d1 is worse than d2 for mm: larger for max, smaller for min
func (mm MinMax) Greater(d1, d2 float32) bool {
	if mm == Max {
		return d1 > d2
	}
	return d1 < d2
}
