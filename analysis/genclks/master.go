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
	"fmt"
	"strings"

	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/search"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
	"github.com/awslabs/ar-sta-tools/internal/formatutil"
	"github.com/awslabs/ar-sta-tools/internal/funcutil"
	"github.com/awslabs/ar-sta-tools/internal/graphutil"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"
)

// CheckMaster makes sure gclk has a master clock, and reports a configuration error on the analysis state when it
// does not. The result is cached until Clear.
func (g *Genclks) CheckMaster(gclk *sdc.Clock) error {
	if err, ok := g.masterErrs[gclk.ID()]; ok {
		return err
	}
	err := g.EnsureMaster(gclk)
	if err != nil {
		g.logger.Warnf("%s", formatutil.Yellow(fmt.Sprintf("generated clock %s: %v", gclk.Name(), err)))
		g.state.AddError(err)
	}
	g.masterErrs[gclk.ID()] = err
	return err
}

// EnsureMaster resolves the master clock of gclk and derives the waveform of gclk from it. When gclk has no
// declared master, the master is the clock defined on the source pin or, failing that, the only clock reaching the
// source pin through the timing graph.
func (g *Genclks) EnsureMaster(gclk *sdc.Clock) error {
	return g.ensureMaster(gclk, map[sdc.ClockID]bool{})
}

func (g *Genclks) ensureMaster(gclk *sdc.Clock, visiting map[sdc.ClockID]bool) error {
	if !gclk.IsGenerated() {
		return fmt.Errorf("clock %s: %w", gclk.Name(), ErrNotGenerated)
	}
	if visiting[gclk.ID()] {
		return fmt.Errorf("generated clock %s: %w", gclk.Name(), ErrMasterCycle)
	}
	visiting[gclk.ID()] = true

	master := gclk.MasterClk()
	if master == nil {
		candidates := g.inferMasters(gclk)
		switch len(candidates) {
		case 0:
			return fmt.Errorf("generated clock %s: %w", gclk.Name(), ErrNoMasterClock)
		case 1:
			master = candidates[0]
			gclk.SetInferredMasterClk(master)
			g.logger.Debugf("generated clock %s: inferred master clock %s", gclk.Name(), master.Name())
		default:
			names := funcutil.Map(candidates, func(c *sdc.Clock) string { return c.Name() })
			return fmt.Errorf("generated clock %s pin %s (clocks %s): %w",
				gclk.Name(), gclk.SrcPin(), strings.Join(names, ", "), ErrMultipleMasterClocks)
		}
	}
	if master.IsGenerated() {
		if err := g.ensureMaster(master, visiting); err != nil {
			return fmt.Errorf("generated clock %s: master %s: %w", gclk.Name(), master.Name(), err)
		}
	}
	gclk.Generate(master)
	return nil
}

// inferMasters returns the candidate master clocks of gclk, ordered by clock id. A clock defined on the source pin
// takes precedence. Otherwise the fanin of the source pin is searched for clock pins; the search does not go
// through clock pins.
func (g *Genclks) inferMasters(gclk *sdc.Clock) []*sdc.Clock {
	src := gclk.SrcPin()
	for _, clk := range g.sdc.FindClocks(src) {
		if clk != gclk {
			return []*sdc.Clock{clk}
		}
	}

	found := map[sdc.ClockID]*sdc.Clock{}
	otherClocks := func(pin *timing.Pin) []*sdc.Clock {
		var clks []*sdc.Clock
		for _, clk := range g.sdc.FindClocks(pin) {
			if clk != gclk {
				clks = append(clks, clk)
			}
		}
		return clks
	}
	pred := search.SearchPred0{}
	bf := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			// e is reversed: e.From() is the vertex being expanded
			edge := e.(*timing.Edge)
			return pred.SearchThru(edge) && len(otherClocks(edge.FromVertex().Pin())) == 0
		},
		Visit: func(n graph.Node) {
			for _, clk := range otherClocks(n.(*timing.Vertex).Pin()) {
				found[clk.ID()] = clk
			}
		},
	}
	reversed := graphutil.Reversed{G: g.graph.Directed()}
	vertex, bidirectDrvr := g.graph.PinVertices(src)
	for _, v := range []*timing.Vertex{vertex, bidirectDrvr} {
		if v != nil {
			bf.Walk(reversed, v, nil)
		}
	}

	candidates := make([]*sdc.Clock, 0, len(found))
	for _, clk := range g.sdc.Clocks() {
		if _, ok := found[clk.ID()]; ok {
			candidates = append(candidates, clk)
		}
	}
	return candidates
}
