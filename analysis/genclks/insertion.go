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
	"sort"

	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/search"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
)

// EnsureInsertionDelays computes the source paths and insertion delays of every generated clock, once until the next
// Clear. Generated clocks are processed in increasing level of their pins, so that the masters of generated masters
// are done first.
func (g *Genclks) EnsureInsertionDelays() {
	if g.foundInsertionDelays {
		return
	}
	g.foundInsertionDelays = true
	g.logger.Debugf("find generated clk insertion delays")

	var gclks []*sdc.Clock
	for _, clk := range g.sdc.Clocks() {
		if clk.IsGenerated() {
			g.CheckMaster(clk)
			gclks = append(gclks, clk)
		}
	}
	levels := map[sdc.ClockID]int{}
	for _, gclk := range gclks {
		levels[gclk.ID()] = g.ClkPinMaxLevel(gclk)
	}
	sort.SliceStable(gclks, func(i, j int) bool { return levels[gclks[i].ID()] < levels[gclks[j].ID()] })

	for _, gclk := range gclks {
		if gclk.MasterClk() == nil || g.masterErrs[gclk.ID()] != nil {
			continue
		}
		g.tracef(gclk, "find insertion delays")
		g.findSrcArrivals(gclk)
		g.recordSrcPaths(gclk)
		g.findInsertionDelays(gclk)
	}
	// Search arrivals are only needed while the source paths are propagated
	g.arrivals.Clear()
}

func (g *Genclks) findInsertionDelays(gclk *sdc.Clock) {
	info := g.genclkInfo(gclk)
	for _, pin := range gclk.LeafPins() {
		for _, ap := range g.corners.PathAnalysisPts() {
			for _, rf := range sdc.RiseFalls() {
				path := g.SrcPath(gclk, pin, rf, ap)
				if path == nil {
					continue
				}
				insertion := path.Arrival() - path.ClkEdge().Time()
				info.setInsertionDelay(pin, rf, ap, insertion)
				g.tracef(gclk, "insertion %s %s %s = %g", pin, rf, ap, insertion)
			}
		}
	}
}

// InsertionDelay returns the insertion delay of the generated clock clk at pin for the transition rf. The delay is
// read at the insertion analysis point of ap for earlyLate. It is 0 when no source path reaches the pin.
func (g *Genclks) InsertionDelay(clk *sdc.Clock, pin *timing.Pin, rf sdc.RiseFall, earlyLate sdc.EarlyLate,
	ap *sdc.PathAnalysisPt) search.Arrival {
	g.EnsureInsertionDelays()
	info, ok := g.infos[clk.ID()]
	if !ok {
		return 0
	}
	insertion, _ := info.insertionDelay(pin, rf, ap.InsertionAnalysisPt(earlyLate))
	return insertion
}
