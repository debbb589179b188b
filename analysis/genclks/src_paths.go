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
	"sort"

	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/search"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
	"github.com/awslabs/ar-sta-tools/internal/formatutil"
	"github.com/awslabs/ar-sta-tools/internal/graphutil"
	"golang.org/x/exp/slices"
)

// insertionPred restricts the source path search of a generated clock to its fanin, without going through the
// latch feedback edges of the fanin.
type insertionPred struct {
	faninPred
	fanins    timing.VertexSet
	fdbkEdges timing.EdgeSet
}

func (g *Genclks) newInsertionPred(gclk *sdc.Clock) insertionPred {
	return insertionPred{
		faninPred: newFaninPred(gclk),
		fanins:    g.Fanins(gclk),
		fdbkEdges: g.FindLatchFdbkEdges(gclk),
	}
}

// SearchThru implements search.SearchPred
func (p insertionPred) SearchThru(edge *timing.Edge) bool {
	return p.faninPred.SearchThru(edge) && !p.fdbkEdges.Has(edge)
}

// SearchTo implements search.SearchPred
func (p insertionPred) SearchTo(v *timing.Vertex) bool {
	return p.fanins.Has(v)
}

// srcPathIndex returns the slot of the source path for transition rf under the analysis point ap
func srcPathIndex(rf sdc.RiseFall, ap *sdc.PathAnalysisPt) int {
	return ap.Index()*sdc.RiseFallCount + rf.Index()
}

// findSrcArrivals propagates the master clock of gclk from the master clock pins to the pins of gclk
func (g *Genclks) findSrcArrivals(gclk *sdc.Clock) {
	pred := g.newInsertionPred(gclk)
	levels := srcSearchLevels(pred)
	iter := search.NewBfsFwdIteratorLevels(pred, func(v *timing.Vertex) int { return levels[v.VertexID()] })
	seeds := g.seedSrcPins(gclk, iter)
	bldr := search.NewTagGroupBldr()
	count := iter.Visit(func(v *timing.Vertex) {
		if seeds.Has(v) {
			return
		}
		g.visitSrcArrivals(gclk, v, bldr, pred)
		iter.EnqueueAdjacentVertices(v)
	})
	g.logger.Debugf("generated clock %s: source arrivals at %d vertices", gclk.Name(), count)
}

// srcSearchLevels orders the fanin of a generated clock along the edges of the source path search. Without the
// latch feedback edges the loops of the fanin are open, so the level of a vertex is above the level of every
// predecessor the search reaches it from. The vertices of a loop left open, a combinational loop, share a level.
func srcSearchLevels(pred insertionPred) map[timing.VertexID]int {
	successors := func(v *timing.Vertex) []*timing.Vertex {
		var succs []*timing.Vertex
		for _, e := range v.OutEdges() {
			if pred.SearchThru(e) && pred.SearchTo(e.ToVertex()) {
				succs = append(succs, e.ToVertex())
			}
		}
		return succs
	}
	// components come successors first
	sccs := graphutil.StronglyConnectedComponents(pred.fanins.Sorted(), successors)
	levels := make(map[timing.VertexID]int, len(pred.fanins))
	for i, scc := range sccs {
		for _, v := range scc {
			levels[v.VertexID()] = len(sccs) - 1 - i
		}
	}
	return levels
}

// seedSrcPins sets the arrivals of the master clock at its pins and enqueues their fanout
func (g *Genclks) seedSrcPins(gclk *sdc.Clock, iter *search.BfsIterator) timing.VertexSet {
	master := gclk.MasterClk()
	filter := g.srcFilter(gclk)
	seeds := timing.NewVertexSet()
	bldr := search.NewTagGroupBldr()
	for _, pin := range master.LeafPins() {
		vertex := g.graph.PinDrvrVertex(pin)
		if vertex == nil {
			continue
		}
		bldr.Init(vertex)
		g.CopyGenClkSrcPaths(vertex, bldr)
		for _, ap := range g.corners.PathAnalysisPts() {
			for _, rf := range sdc.RiseFalls() {
				insertion := g.masterInsertion(master, pin, rf, ap)
				tag := g.tagMaker(g.tags, gclk, master, pin, rf, filter, insertion, ap)
				arrival := master.Edge(rf).Time() + insertion
				bldr.InsertPath(search.NewPath(vertex, tag, arrival, nil, nil, nil))
			}
		}
		g.arrivals.SetVertexArrivals(bldr)
		seeds.Insert(vertex)
		g.tracef(gclk, "seed master clock pin %s", pin)
		iter.EnqueueAdjacentVertices(vertex)
	}
	return seeds
}

// masterInsertion returns the insertion delay of the master clock at pin. A source latency takes precedence over the
// generated insertion of a generated master.
func (g *Genclks) masterInsertion(master *sdc.Clock, pin *timing.Pin, rf sdc.RiseFall,
	ap *sdc.PathAnalysisPt) search.Arrival {
	el := ap.PathMinMax()
	if insertion, ok := g.sdc.ClockInsertion(master, rf, el); ok {
		return insertion
	}
	if master.IsGeneratedWithPropagatedMaster() {
		if info, ok := g.infos[master.ID()]; ok {
			insertion, _ := info.insertionDelay(pin, rf, ap.InsertionAnalysisPt(el))
			return insertion
		}
	}
	return 0
}

// visitSrcArrivals computes the source path arrivals of gclk at v from the arrivals of its fanin
func (g *Genclks) visitSrcArrivals(gclk *sdc.Clock, v *timing.Vertex, bldr *search.TagGroupBldr,
	pred search.SearchPred) {
	bldr.Init(v)
	g.CopyGenClkSrcPaths(v, bldr)
	for _, e := range v.InEdges() {
		from := e.FromVertex()
		if !pred.SearchFrom(from) || !pred.SearchThru(e) || !pred.SearchTo(v) {
			continue
		}
		for _, path := range g.arrivals.VertexPaths(from) {
			tag := path.Tag()
			if !tag.IsGenClkSrcPath() || tag.Filter() == nil || tag.Filter().Gclk() != gclk {
				continue
			}
			for _, arc := range e.Arcs() {
				if arc.FromIndex() != path.Transition().TimingIndex() {
					continue
				}
				toRf := sdc.FromTimingIndex(arc.ToIndex())
				filter := tag.Filter()
				newTag := g.tags.FindTag(search.TagSpec{
					Transition:      toRf,
					PathAP:          tag.PathAnalysisPt(),
					ClkInfo:         tag.ClkInfo(),
					IsClock:         true,
					IsGenClkSrcPath: true,
					Filter:          filter,
					FilterDone:      tag.FilterDone() || v.Pin() == filter.ThruPin(),
				})
				arrival := path.Arrival() + arc.Delay(tag.PathAnalysisPt().Index())
				bldr.InsertPath(search.NewPath(v, newTag, arrival, path, e, arc))
			}
		}
	}
	g.arrivals.SetVertexArrivals(bldr)
}

// matchesSrcFilter returns true if path is a source path of gclk that went through the source pin
func matchesSrcFilter(path *search.Path, gclk *sdc.Clock) bool {
	tag := path.Tag()
	return tag.IsGenClkSrcPath() && tag.Filter() != nil && tag.Filter().Gclk() == gclk && tag.FilterDone()
}

// recordSrcPaths keeps one source path per transition and analysis point at each pin of gclk. The vertices of the
// kept paths are remembered so that later searches start from them.
func (g *Genclks) recordSrcPaths(gclk *sdc.Clock) {
	slots := g.corners.PathAnalysisPtCount() * sdc.RiseFallCount
	keepWorst := g.state.Config.KeepWorstSrcPath()
	for _, pin := range gclk.LeafPins() {
		srcPaths := make([]*search.Path, slots)
		found := false
		for _, path := range g.arrivals.VertexPaths(g.SrcPathVertex(pin)) {
			clkEdge := path.ClkEdge()
			if clkEdge == nil || !matchesSrcFilter(path, gclk) {
				continue
			}
			if gclk.IsDivideByOneCombinational() && path.Inverting() != gclk.Invert() {
				continue
			}
			rf := path.Transition()
			if gclk.HasEdges() && clkEdge.Transition() != gclk.MasterClkEdgeTr(rf) {
				continue
			}
			idx := srcPathIndex(rf, path.PathAnalysisPt())
			prev := srcPaths[idx]
			if prev == nil || (keepWorst && path.MinMax().Greater(path.Arrival(), prev.Arrival())) {
				srcPaths[idx] = path
				found = true
			}
		}
		if found {
			g.srcPaths[ClockPinPair{gclk.ID(), pin.ID()}] = srcPaths
			for _, path := range srcPaths {
				g.recordSrcPathVertices(path)
			}
		} else if g.state.Config.Options.ReportMissingSrcPaths {
			g.logger.Warnf("%s", formatutil.Yellow(fmt.Sprintf("generated clock %s pin %s: missing paths from master clock %s",
				gclk.Name(), pin.Name(), gclk.MasterClk().Name())))
		}
	}
}

func (g *Genclks) recordSrcPathVertices(path *search.Path) {
	for p := path; p != nil; p = p.PrevPath() {
		id := p.Vertex().VertexID()
		if !slices.Contains(g.vertexSrcPaths[id], p) {
			g.vertexSrcPaths[id] = append(g.vertexSrcPaths[id], p)
		}
	}
}

// CopyGenClkSrcPaths inserts the recorded source path prefixes ending at v into bldr. It does not compute the source
// paths: the caller is a search that runs after, or inside, EnsureInsertionDelays.
func (g *Genclks) CopyGenClkSrcPaths(v *timing.Vertex, bldr *search.TagGroupBldr) {
	for _, path := range g.vertexSrcPaths[v.VertexID()] {
		bldr.InsertPath(path)
	}
}

// SrcPath returns the recorded source path of the generated clock clk at pin for the transition rf under the analysis
// point ap, or nil. Source paths are computed on first use.
func (g *Genclks) SrcPath(clk *sdc.Clock, pin *timing.Pin, rf sdc.RiseFall, ap *sdc.PathAnalysisPt) *search.Path {
	if !clk.IsGenerated() || pin == nil || ap == nil {
		return nil
	}
	g.EnsureInsertionDelays()
	srcPaths, ok := g.srcPaths[ClockPinPair{clk.ID(), pin.ID()}]
	if !ok {
		return nil
	}
	return srcPaths[srcPathIndex(rf, ap)]
}

// SrcPathForEdge returns the source path of the clock of clkEdge at pin
func (g *Genclks) SrcPathForEdge(clkEdge *sdc.ClockEdge, pin *timing.Pin, ap *sdc.PathAnalysisPt) *search.Path {
	if clkEdge == nil {
		return nil
	}
	return g.SrcPath(clkEdge.Clock(), pin, clkEdge.Transition(), ap)
}

// SrcPathOf returns the source path of the clock that clkPath carries, at the clock source pin of clkPath
func (g *Genclks) SrcPathOf(clkPath *search.Path) *search.Path {
	clkInfo := clkPath.ClkInfo()
	if clkInfo.ClkEdge() == nil || clkInfo.ClkSrc() == nil {
		return nil
	}
	insertionAP := clkPath.PathAnalysisPt().InsertionAnalysisPt(clkPath.MinMax())
	return g.SrcPathForEdge(clkInfo.ClkEdge(), clkInfo.ClkSrc(), insertionAP)
}

// SrcChain returns the source paths of clk at pin followed by the source paths of its generated masters, up to the
// first master that is not generated from a propagated master.
func (g *Genclks) SrcChain(clk *sdc.Clock, pin *timing.Pin, rf sdc.RiseFall, ap *sdc.PathAnalysisPt) []*search.Path {
	var chain []*search.Path
	path := g.SrcPath(clk, pin, rf, ap)
	for path != nil {
		chain = append(chain, path)
		if !clk.IsGeneratedWithPropagatedMaster() {
			break
		}
		root := search.PathExpanded(path)[0]
		clk = clk.MasterClk()
		path = g.SrcPath(clk, root.Pin(), root.Transition(), ap)
	}
	return chain
}

// RecordedSrcPathPins returns the (clock, pin) pairs that have source paths, ordered by clock then pin
func (g *Genclks) RecordedSrcPathPins() []ClockPinPair {
	pairs := make([]ClockPinPair, 0, len(g.srcPaths))
	for pair := range g.srcPaths {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Less(pairs[j]) })
	return pairs
}
