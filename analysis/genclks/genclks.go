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

	"github.com/awslabs/ar-sta-tools/analysis"
	"github.com/awslabs/ar-sta-tools/analysis/config"
	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/search"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
)

// SrcFilterMaker builds the filter admitting the source paths of gclk from its master clock
type SrcFilterMaker func(gclk, master *sdc.Clock) *search.FilterPath

// TagMaker builds the tag of a source path of gclk starting at the transition rf of masterPin, a pin of the master
// clock, under the analysis point ap. insertion is the insertion delay of the master clock at masterPin.
type TagMaker func(tags *search.TagSet, gclk, master *sdc.Clock, masterPin *timing.Pin, rf sdc.RiseFall,
	filter *search.FilterPath, insertion search.Arrival, ap *sdc.PathAnalysisPt) *search.Tag

// ClockPinPair is the key of the source paths of a generated clock at one of its pins
type ClockPinPair struct {
	Clock sdc.ClockID
	Pin   timing.PinID
}

// Less orders pairs by clock, then pin
func (p ClockPinPair) Less(other ClockPinPair) bool {
	if p.Clock != other.Clock {
		return p.Clock < other.Clock
	}
	return p.Pin < other.Pin
}

// Genclks computes and caches the fanin, latch feedback edges, source paths and insertion delays of the generated
// clocks of an analysis state.
type Genclks struct {
	state   *analysis.State
	logger  *config.LogGroup
	graph   *timing.Graph
	sdc     *sdc.Sdc
	corners *sdc.Corners

	tags     *search.TagSet
	arrivals *search.Arrivals

	infos          map[sdc.ClockID]*genclkInfo
	masterErrs     map[sdc.ClockID]error
	filters        map[sdc.ClockID]*search.FilterPath
	srcPaths       map[ClockPinPair][]*search.Path
	vertexSrcPaths map[timing.VertexID][]*search.Path

	foundInsertionDelays bool

	srcFilterMaker SrcFilterMaker
	tagMaker       TagMaker
}

// New returns the generated clock engine of state. The engine clears its caches whenever the graph or the
// constraints of state change.
func New(state *analysis.State) *Genclks {
	g := &Genclks{
		state:          state,
		logger:         state.Logger,
		graph:          state.Graph,
		sdc:            state.Sdc,
		corners:        state.Corners,
		tags:           search.NewTagSet(),
		arrivals:       search.NewArrivals(),
		srcFilterMaker: DefaultSrcFilter,
		tagMaker:       DefaultTag,
	}
	g.reset()
	state.Graph.Subscribe(g.Clear)
	state.Sdc.Subscribe(g.Clear)
	return g
}

// DefaultSrcFilter admits the paths from the master clock through the source pin of gclk
func DefaultSrcFilter(gclk, master *sdc.Clock) *search.FilterPath {
	return search.NewFilterPath(gclk, master, gclk.SrcPin())
}

// DefaultTag returns the clock tag of a source path of gclk. The filter is already satisfied when the path
// starts at the source pin.
func DefaultTag(tags *search.TagSet, gclk, master *sdc.Clock, masterPin *timing.Pin, rf sdc.RiseFall,
	filter *search.FilterPath, insertion search.Arrival, ap *sdc.PathAnalysisPt) *search.Tag {
	clkInfo := search.NewClkInfo(master.Edge(rf), masterPin, master.IsPropagated(), insertion, ap)
	return tags.FindTag(search.TagSpec{
		Transition:      rf,
		PathAP:          ap,
		ClkInfo:         clkInfo,
		IsClock:         true,
		IsGenClkSrcPath: true,
		Filter:          filter,
		FilterDone:      filter.ThruPin() == masterPin,
	})
}

// SetSrcFilterMaker replaces the construction of source path filters and clears the caches
func (g *Genclks) SetSrcFilterMaker(maker SrcFilterMaker) {
	g.srcFilterMaker = maker
	g.Clear()
}

// SetTagMaker replaces the construction of source path tags and clears the caches
func (g *Genclks) SetTagMaker(maker TagMaker) {
	g.tagMaker = maker
	g.Clear()
}

// Clear forgets every computed result. Inferred master clocks are forgotten too.
func (g *Genclks) Clear() {
	g.reset()
	for _, clk := range g.sdc.Clocks() {
		if clk.IsGenerated() && clk.DeclaredMasterClk() == nil {
			clk.SetInferredMasterClk(nil)
		}
	}
}

func (g *Genclks) reset() {
	g.infos = map[sdc.ClockID]*genclkInfo{}
	g.masterErrs = map[sdc.ClockID]error{}
	g.filters = map[sdc.ClockID]*search.FilterPath{}
	g.srcPaths = map[ClockPinPair][]*search.Path{}
	g.vertexSrcPaths = map[timing.VertexID][]*search.Path{}
	g.foundInsertionDelays = false
	g.tags.Clear()
	g.arrivals.Clear()
}

// genclkInfo returns the info of gclk, creating it on first use
func (g *Genclks) genclkInfo(gclk *sdc.Clock) *genclkInfo {
	if info, ok := g.infos[gclk.ID()]; ok {
		return info
	}
	return g.makeGenclkInfo(gclk)
}

func (g *Genclks) makeGenclkInfo(gclk *sdc.Clock) *genclkInfo {
	info := newGenclkInfo(gclk)
	g.infos[gclk.ID()] = info
	return info
}

func (g *Genclks) srcFilter(gclk *sdc.Clock) *search.FilterPath {
	if f, ok := g.filters[gclk.ID()]; ok {
		return f
	}
	f := g.srcFilterMaker(gclk, gclk.MasterClk())
	g.filters[gclk.ID()] = f
	return f
}

// SrcPathVertex returns the vertex where the source paths of a generated clock pin end: the driver vertex of
// bidirectional pins, the vertex of the pin otherwise.
func (g *Genclks) SrcPathVertex(pin *timing.Pin) *timing.Vertex {
	vertex, bidirectDrvr := g.graph.PinVertices(pin)
	if bidirectDrvr != nil {
		return bidirectDrvr
	}
	return vertex
}

// ClkPinMaxLevel returns the maximum level of the source path vertices of the pins of clk
func (g *Genclks) ClkPinMaxLevel(clk *sdc.Clock) int {
	level := 0
	for _, pin := range clk.LeafPins() {
		if v := g.SrcPathVertex(pin); v != nil && v.Level() > level {
			level = v.Level()
		}
	}
	return level
}

func (g *Genclks) tracing(gclk *sdc.Clock) bool {
	return g.logger.Level() >= config.TraceLevel && g.state.Config.MatchTraceFilter(gclk.Name())
}

func (g *Genclks) tracef(gclk *sdc.Clock, format string, args ...any) {
	if g.tracing(gclk) {
		g.logger.Tracef("%s: %s", gclk.Name(), fmt.Sprintf(format, args...))
	}
}
