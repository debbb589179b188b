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

// GeneratedClockDef is the declaration of a generated clock
type GeneratedClockDef struct {
	Name string
	// Pins are the generating pins the clock is defined on
	Pins []*timing.Pin
	// SrcPin is where the master clock enters the generating logic
	SrcPin *timing.Pin
	// MasterClk is the declared master clock. When nil, the master is inferred from the fanin of SrcPin.
	MasterClk     *Clock
	DivideBy      int
	MultiplyBy    int
	DutyCycle     float32
	Invert        bool
	Combinational bool
	// Edges lists three master clock edges (1-based) defining the rise, fall and next rise of the clock
	Edges      []int
	Propagated bool
}

type latencyKey struct {
	clk ClockID
	rf  RiseFall
	el  EarlyLate
}

// Sdc holds the clock constraints of the design. Every change publishes a "clocks changed" event to the subscribers
// registered with Subscribe.
type Sdc struct {
	clocks      []*Clock
	byName      map[string]*Clock
	pinClocks   map[timing.PinID][]*Clock
	latencies   map[latencyKey]float32
	subscribers []func()
}

// NewSdc returns an empty set of constraints
func NewSdc() *Sdc {
	return &Sdc{
		byName:    map[string]*Clock{},
		pinClocks: map[timing.PinID][]*Clock{},
		latencies: map[latencyKey]float32{},
	}
}

// Subscribe registers f to be called every time the constraints change
func (s *Sdc) Subscribe(f func()) {
	s.subscribers = append(s.subscribers, f)
}

func (s *Sdc) changed() {
	for _, f := range s.subscribers {
		f()
	}
}

// MakeClock defines a primary clock on pins
func (s *Sdc) MakeClock(name string, pins []*timing.Pin, period float32, waveform [RiseFallCount]float32) (*Clock, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	if period <= 0 {
		return nil, fmt.Errorf("clock %s: period must be positive", name)
	}
	clk := newClock(ClockID(len(s.clocks)), name, pins)
	clk.period = period
	clk.waveform = waveform
	s.addClock(clk)
	return clk, nil
}

// MakeGeneratedClock defines a generated clock
func (s *Sdc) MakeGeneratedClock(def GeneratedClockDef) (*Clock, error) {
	if err := s.checkName(def.Name); err != nil {
		return nil, err
	}
	if len(def.Pins) == 0 {
		return nil, fmt.Errorf("generated clock %s: no pins", def.Name)
	}
	if def.SrcPin == nil {
		return nil, fmt.Errorf("generated clock %s: no source pin", def.Name)
	}
	if len(def.Edges) != 0 && len(def.Edges) != 3 {
		return nil, fmt.Errorf("generated clock %s: edges must list 3 master clock edges", def.Name)
	}
	clk := newClock(ClockID(len(s.clocks)), def.Name, def.Pins)
	clk.isGenerated = true
	clk.srcPin = def.SrcPin
	clk.masterClk = def.MasterClk
	clk.divideBy = def.DivideBy
	clk.multiplyBy = def.MultiplyBy
	clk.dutyCycle = def.DutyCycle
	clk.invert = def.Invert
	clk.combinational = def.Combinational
	clk.edgeList = def.Edges
	clk.propagated = def.Propagated
	s.addClock(clk)
	return clk, nil
}

func (s *Sdc) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty clock name")
	}
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("duplicate clock %s", name)
	}
	return nil
}

func (s *Sdc) addClock(clk *Clock) {
	s.clocks = append(s.clocks, clk)
	s.byName[clk.name] = clk
	for _, pin := range clk.pins {
		s.pinClocks[pin.ID()] = append(s.pinClocks[pin.ID()], clk)
	}
	s.changed()
}

// Clocks returns the clocks in creation order
func (s *Sdc) Clocks() []*Clock { return s.clocks }

// FindClock returns the clock named name, or nil
func (s *Sdc) FindClock(name string) *Clock { return s.byName[name] }

// FindClocks returns the clocks defined on pin
func (s *Sdc) FindClocks(pin *timing.Pin) []*Clock {
	if pin == nil {
		return nil
	}
	return s.pinClocks[pin.ID()]
}

// IsLeafPinClock returns true if some clock is defined on pin
func (s *Sdc) IsLeafPinClock(pin *timing.Pin) bool {
	return len(s.FindClocks(pin)) > 0
}

// SetPropagated sets whether the network delays of clk are propagated
func (s *Sdc) SetPropagated(clk *Clock, propagated bool) {
	if clk.propagated != propagated {
		clk.propagated = propagated
		s.changed()
	}
}

// SetClockLatency sets the source latency (insertion delay) of clk for a transition and early/late
func (s *Sdc) SetClockLatency(clk *Clock, rf RiseFall, el EarlyLate, latency float32) {
	s.latencies[latencyKey{clk.id, rf, el}] = latency
	s.changed()
}

// ClockInsertion returns the source latency of clk, and whether it has been set
func (s *Sdc) ClockInsertion(clk *Clock, rf RiseFall, el EarlyLate) (float32, bool) {
	v, ok := s.latencies[latencyKey{clk.id, rf, el}]
	return v, ok
}
