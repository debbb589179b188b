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

import (
	"fmt"

	"github.com/awslabs/ar-sta-tools/analysis/timing"
)

// ClockID is the stable identifier of a clock, assigned in creation order
type ClockID int

// Clock is a clock definition. A generated clock derives its waveform from a master clock that enters the
// generating logic at the clock's source pin.
type Clock struct {
	id         ClockID
	name       string
	period     float32
	waveform   [RiseFallCount]float32
	pins       []*timing.Pin
	propagated bool
	edges      [RiseFallCount]*ClockEdge

	isGenerated    bool
	srcPin         *timing.Pin
	masterClk      *Clock
	inferredMaster *Clock
	divideBy       int
	multiplyBy     int
	dutyCycle      float32
	invert         bool
	combinational  bool
	edgeList       []int
}

func newClock(id ClockID, name string, pins []*timing.Pin) *Clock {
	c := &Clock{id: id, name: name, pins: pins}
	for _, rf := range RiseFalls() {
		c.edges[rf.Index()] = &ClockEdge{clock: c, rf: rf}
	}
	return c
}

// ID returns the stable identifier of the clock
func (c *Clock) ID() ClockID { return c.id }

// Name returns the name of the clock
func (c *Clock) Name() string { return c.name }

// Period returns the period of the clock. The period of a generated clock is known once its master is resolved.
func (c *Clock) Period() float32 { return c.period }

// Waveform returns the rise and fall times of the clock
func (c *Clock) Waveform() [RiseFallCount]float32 { return c.waveform }

// LeafPins returns the pins the clock is defined on. For a generated clock these are the generating pins.
func (c *Clock) LeafPins() []*timing.Pin { return c.pins }

// DefaultPin returns the first leaf pin, or nil for a virtual clock
func (c *Clock) DefaultPin() *timing.Pin {
	if len(c.pins) == 0 {
		return nil
	}
	return c.pins[0]
}

// IsPropagated returns true if the clock network delays are propagated rather than ideal
func (c *Clock) IsPropagated() bool { return c.propagated }

// Edge returns the clock edge for the transition rf
func (c *Clock) Edge(rf RiseFall) *ClockEdge { return c.edges[rf.Index()] }

// IsGenerated returns true for generated clocks
func (c *Clock) IsGenerated() bool { return c.isGenerated }

// SrcPin returns the pin where the master clock enters the generating logic
func (c *Clock) SrcPin() *timing.Pin { return c.srcPin }

// MasterClk returns the declared master clock, or the inferred one when none was declared
func (c *Clock) MasterClk() *Clock {
	if c.masterClk != nil {
		return c.masterClk
	}
	return c.inferredMaster
}

// DeclaredMasterClk returns the master clock named in the clock definition, if any
func (c *Clock) DeclaredMasterClk() *Clock { return c.masterClk }

// SetInferredMasterClk records the master clock found by searching the fanin of the source pin
func (c *Clock) SetInferredMasterClk(master *Clock) { c.inferredMaster = master }

// Invert returns true if the generated clock is inverted relative to its master
func (c *Clock) Invert() bool { return c.invert }

// Combinational returns true if the generated clock only propagates through combinational logic
func (c *Clock) Combinational() bool { return c.combinational }

// DivideBy returns the divide ratio of the generated clock
func (c *Clock) DivideBy() int { return c.divideBy }

// MultiplyBy returns the multiply ratio of the generated clock
func (c *Clock) MultiplyBy() int { return c.multiplyBy }

// IsDivideByOneCombinational returns true for a combinational generated clock with the master's frequency
func (c *Clock) IsDivideByOneCombinational() bool {
	return c.combinational && c.divideBy <= 1 && c.multiplyBy <= 1 && len(c.edgeList) == 0
}

// HasEdges returns true if the generated clock is defined by a list of master clock edges
func (c *Clock) HasEdges() bool { return len(c.edgeList) > 0 }

// EdgeList returns the master clock edges (1-based, odd numbers are rising edges) defining the generated clock
func (c *Clock) EdgeList() []int { return c.edgeList }

// MasterClkEdgeTr returns the master clock transition that produces the generated clock transition rf when the
// clock is defined by edges.
func (c *Clock) MasterClkEdgeTr(rf RiseFall) RiseFall {
	if len(c.edgeList) <= rf.Index() {
		return rf
	}
	if (c.edgeList[rf.Index()]-1)%2 == 0 {
		return Rise
	}
	return Fall
}

// IsGeneratedWithPropagatedMaster returns true if the clock is generated from a master clock with propagated
// network delays. The insertion delay of such a clock is its generated insertion delay.
func (c *Clock) IsGeneratedWithPropagatedMaster() bool {
	master := c.MasterClk()
	return c.isGenerated && master != nil && master.propagated
}

// Generate derives the period and waveform of a generated clock from its master.
//
// A divided clock rises with the first rising edge of its master and has a 50% duty cycle whatever the duty cycle
// of the master: a divider toggles on master rising edges only. Use an edge list to follow the master falling
// edges. A multiplied clock has the duty cycle of the definition, 50% by default.
func (c *Clock) Generate(master *Clock) {
	mRise, mFall := master.waveform[Rise], master.waveform[Fall]
	mPeriod := master.period
	var rise, fall, period float32
	switch {
	case len(c.edgeList) >= 3:
		edgeTime := func(edge int) float32 {
			cycle := float32((edge - 1) / 2)
			if (edge-1)%2 == 0 {
				return mRise + cycle*mPeriod
			}
			return mFall + cycle*mPeriod
		}
		rise = edgeTime(c.edgeList[0])
		fall = edgeTime(c.edgeList[1])
		period = edgeTime(c.edgeList[2]) - rise
	case c.multiplyBy > 1:
		period = mPeriod / float32(c.multiplyBy)
		rise = mRise / float32(c.multiplyBy)
		duty := c.dutyCycle
		if duty <= 0 {
			duty = 50
		}
		fall = rise + period*duty/100
	case c.divideBy > 1:
		period = mPeriod * float32(c.divideBy)
		rise = mRise
		fall = rise + period/2
	default:
		period, rise, fall = mPeriod, mRise, mFall
	}
	if c.invert {
		rise, fall = fall, rise+period
	}
	c.period = period
	c.waveform = [RiseFallCount]float32{rise, fall}
}

func (c *Clock) String() string {
	if c == nil {
		return "<nil clock>"
	}
	return c.name
}

// ClockEdge is a transition of a clock. Its time follows the current waveform of the clock.
type ClockEdge struct {
	clock *Clock
	rf    RiseFall
}

// Clock returns the clock of the edge
func (e *ClockEdge) Clock() *Clock { return e.clock }

// Transition returns the transition of the edge
func (e *ClockEdge) Transition() RiseFall { return e.rf }

// Time returns the ideal time of the edge within the clock period
func (e *ClockEdge) Time() float32 { return e.clock.waveform[e.rf.Index()] }

func (e *ClockEdge) String() string {
	return fmt.Sprintf("%s %s", e.clock.name, e.rf)
}
