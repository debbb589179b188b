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

package timing

import "fmt"

// TimingRole is the role of a timing edge
type TimingRole int

const (
	RoleWire TimingRole = iota
	RoleCombinational
	RoleRegClkToQ
	RoleRegSetClr
	RoleLatchEnToQ
	RoleLatchDtoQ
	RoleSetup
	RoleHold
)

var roleNames = map[TimingRole]string{
	RoleWire:          "wire",
	RoleCombinational: "combinational",
	RoleRegClkToQ:     "reg_clk_to_q",
	RoleRegSetClr:     "reg_set_clr",
	RoleLatchEnToQ:    "latch_en_to_q",
	RoleLatchDtoQ:     "latch_d_to_q",
	RoleSetup:         "setup",
	RoleHold:          "hold",
}

func (r TimingRole) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseTimingRole returns the role named s
func ParseTimingRole(s string) (TimingRole, bool) {
	for r, name := range roleNames {
		if name == s {
			return r, true
		}
	}
	return RoleWire, false
}

// IsTimingCheck returns true for setup/hold check edges. Checks never propagate arrivals.
func (r TimingRole) IsTimingCheck() bool {
	return r == RoleSetup || r == RoleHold
}

// IsWire returns true for net (wire) edges
func (r TimingRole) IsWire() bool { return r == RoleWire }

// IsLatchDtoQ returns true for latch data to output edges
func (r TimingRole) IsLatchDtoQ() bool { return r == RoleLatchDtoQ }

// IsCombinationalOrWire returns true for the roles a combinational generated clock propagates through
func (r TimingRole) IsCombinationalOrWire() bool {
	return r == RoleWire || r == RoleCombinational
}

// TimingArc is a single transition pair of an edge with its delays
type TimingArc struct {
	from   RiseFallIndex
	to     RiseFallIndex
	delays []float32
}

// RiseFallIndex is the index of a transition: 0 is rise and 1 is fall. The timing package does not depend on the
// constraint model, so transitions are plain indices here.
type RiseFallIndex int

// NewTimingArc returns an arc from transition from to transition to. delays is indexed by path analysis point
// index; a single delay applies to every analysis point.
func NewTimingArc(from, to RiseFallIndex, delays ...float32) *TimingArc {
	return &TimingArc{from: from, to: to, delays: delays}
}

// FromIndex returns the transition index at the source of the arc
func (a *TimingArc) FromIndex() RiseFallIndex { return a.from }

// ToIndex returns the transition index at the target of the arc
func (a *TimingArc) ToIndex() RiseFallIndex { return a.to }

// Delay returns the delay of the arc for the analysis point with index apIndex
func (a *TimingArc) Delay(apIndex int) float32 {
	switch {
	case len(a.delays) == 0:
		return 0
	case len(a.delays) == 1:
		return a.delays[0]
	case apIndex >= 0 && apIndex < len(a.delays):
		return a.delays[apIndex]
	default:
		return a.delays[len(a.delays)-1]
	}
}

// UnateArcs returns the arcs of a positive unate edge (rise->rise, fall->fall)
func UnateArcs(delays ...float32) []*TimingArc {
	return []*TimingArc{NewTimingArc(0, 0, delays...), NewTimingArc(1, 1, delays...)}
}

// InvertingArcs returns the arcs of a negative unate edge (rise->fall, fall->rise)
func InvertingArcs(delays ...float32) []*TimingArc {
	return []*TimingArc{NewTimingArc(0, 1, delays...), NewTimingArc(1, 0, delays...)}
}

// NonUnateArcs returns the four arcs of a non unate edge
func NonUnateArcs(delays ...float32) []*TimingArc {
	return append(UnateArcs(delays...), InvertingArcs(delays...)...)
}

// RisingEdgeArcs returns the arcs of a rising-edge triggered clock to output edge (rise->rise, rise->fall)
func RisingEdgeArcs(delays ...float32) []*TimingArc {
	return []*TimingArc{NewTimingArc(0, 0, delays...), NewTimingArc(0, 1, delays...)}
}
