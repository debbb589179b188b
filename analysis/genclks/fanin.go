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

import (
	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/search"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
)

// faninPred admits the edges that can affect a generated clock: no timing checks, no disabled edges and no
// register set/clear edges. Combinational generated clocks only go through wires and combinational logic.
type faninPred struct {
	search.SearchPred1
	combinational bool
}

func newFaninPred(gclk *sdc.Clock) faninPred {
	return faninPred{combinational: gclk.Combinational()}
}

// SearchThru implements search.SearchPred
func (p faninPred) SearchThru(edge *timing.Edge) bool {
	return p.SearchPred1.SearchThru(edge) && (!p.combinational || edge.Role().IsCombinationalOrWire())
}

// Fanins returns the vertices that can affect the pins of the generated clock clk, including the vertices of the
// pins. It returns nil for primary clocks. The set is computed on first use and must not be modified.
func (g *Genclks) Fanins(clk *sdc.Clock) timing.VertexSet {
	if !clk.IsGenerated() {
		return nil
	}
	info := g.genclkInfo(clk)
	if info.fanins == nil {
		info.fanins = g.findFanin(clk)
	}
	return info.fanins
}

func (g *Genclks) findFanin(gclk *sdc.Clock) timing.VertexSet {
	fanins := timing.NewVertexSet()
	iter := search.NewBfsBkwdIterator(newFaninPred(gclk))
	for _, pin := range gclk.LeafPins() {
		vertex, bidirectDrvr := g.graph.PinVertices(pin)
		for _, v := range []*timing.Vertex{vertex, bidirectDrvr} {
			if v != nil {
				fanins.Insert(v)
				iter.EnqueueAdjacentVertices(v)
			}
		}
	}
	for iter.HasNext() {
		v := iter.Next()
		if !fanins.Has(v) {
			fanins.Insert(v)
			g.tracef(gclk, "gen clk fanin %s", v)
			iter.EnqueueAdjacentVertices(v)
		}
	}
	g.logger.Debugf("generated clock %s: %d fanin vertices", gclk.Name(), len(fanins))
	return fanins
}
