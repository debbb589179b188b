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

// PinID is the stable identifier of a pin. Pin ids are dense and assigned in creation order.
type PinID int

// PinDirection is the direction of a netlist terminal
type PinDirection int

const (
	// DirInput is an input pin, it gets a single (load) vertex
	DirInput PinDirection = iota
	// DirOutput is an output pin, it gets a single (driver) vertex
	DirOutput
	// DirBidirect is a bidirectional pin. It gets a load vertex and a separate driver vertex.
	DirBidirect
	// DirInternal is an internal pin of a cell (e.g. a latch internal node)
	DirInternal
)

var dirNames = map[PinDirection]string{
	DirInput:    "input",
	DirOutput:   "output",
	DirBidirect: "bidirect",
	DirInternal: "internal",
}

func (d PinDirection) String() string {
	if s, ok := dirNames[d]; ok {
		return s
	}
	return fmt.Sprintf("dir(%d)", int(d))
}

// ParsePinDirection returns the direction named s
func ParsePinDirection(s string) (PinDirection, bool) {
	for d, name := range dirNames {
		if name == s {
			return d, true
		}
	}
	return DirInput, false
}

// Pin is a netlist terminal. Pins are owned by the Graph that created them.
type Pin struct {
	id   PinID
	name string
	dir  PinDirection
}

// ID returns the stable identifier of the pin
func (p *Pin) ID() PinID { return p.id }

// Name returns the hierarchical path name of the pin
func (p *Pin) Name() string { return p.name }

// Direction returns the direction of the pin
func (p *Pin) Direction() PinDirection { return p.dir }

// IsBidirect returns true if the pin is bidirectional
func (p *Pin) IsBidirect() bool { return p.dir == DirBidirect }

func (p *Pin) String() string {
	if p == nil {
		return "<nil pin>"
	}
	return p.name
}
