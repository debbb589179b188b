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
	"strings"

	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/search"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
	"github.com/awslabs/ar-sta-tools/internal/funcutil"
	"github.com/awslabs/ar-sta-tools/internal/graphutil"
	"gonum.org/v1/gonum/graph"
)

// LatchFdbkEdges returns the latch feedback edges of the fanin of the generated clock clk, computing them on first
// use. It returns nil for primary clocks. The set must not be modified.
func (g *Genclks) LatchFdbkEdges(clk *sdc.Clock) timing.EdgeSet {
	return g.FindLatchFdbkEdges(clk)
}

// FindLatchFdbkEdges finds the edges of the fanin of gclk that close a loop through a latch whose enable is in the
// fanin. The result is cached until Clear.
func (g *Genclks) FindLatchFdbkEdges(gclk *sdc.Clock) timing.EdgeSet {
	if !gclk.IsGenerated() {
		return nil
	}
	info := g.genclkInfo(gclk)
	if !info.foundLatchFdbkEdges {
		info.latchFdbkEdges = g.findLatchFdbkEdges(gclk)
		info.foundLatchFdbkEdges = true
	}
	return info.latchFdbkEdges
}

func (g *Genclks) findLatchFdbkEdges(gclk *sdc.Clock) timing.EdgeSet {
	fanins := g.Fanins(gclk)
	s := &latchFdbkSearch{
		fanins:    fanins,
		gclkLevel: g.ClkPinMaxLevel(gclk),
		pred:      search.SearchPred1{},
		visited:   timing.NewVertexSet(),
		onStack:   map[timing.VertexID]int{},
		edges:     timing.NewEdgeSet(),
	}
	// Only the latches lying on a loop of the fanin can start a feedback loop
	follow := func(e graph.Edge) bool { return s.follows(e.(*timing.Edge)) }
	loops := graphutil.NewAdjGraph(g.graph.Directed(), fanins.IDs(), follow)
	cyclic := graphutil.CyclicVertices(loops)
	for _, v := range fanins.Sorted() {
		if cyclic[v.ID()] && isLatchData(v, fanins) {
			s.visit(v)
		}
	}
	for _, e := range s.edges.Sorted() {
		g.tracef(gclk, "latch feedback edge %s", e)
	}
	if g.tracing(gclk) {
		g.traceLatchLoops(gclk, loops, s.edges)
	}
	return s.edges
}

// traceLatchLoops traces the elementary loops of the fanin broken by a latch feedback edge. The number of loops
// can grow exponentially with the size of the fanin, so they are only enumerated when tracing.
func (g *Genclks) traceLatchLoops(gclk *sdc.Clock, loops graphutil.AdjGraph, fdbkEdges timing.EdgeSet) {
	for _, cycle := range graphutil.FindAllElementaryCycles(loops) {
		broken := false
		for i := 0; i+1 < len(cycle); i++ {
			if e, ok := loops.Edge(cycle[i], cycle[i+1]).(*timing.Edge); ok && fdbkEdges.Has(e) {
				broken = true
			}
		}
		if broken {
			names := funcutil.Map(cycle, func(id int64) string { return loops.Node(id).(*timing.Vertex).String() })
			g.tracef(gclk, "latch loop %s", strings.Join(names, " -> "))
		}
	}
}

// isLatchData returns true if v is the data input of a latch enabled from inside fanins
func isLatchData(v *timing.Vertex, fanins timing.VertexSet) bool {
	return funcutil.Exists(v.OutEdges(), func(e *timing.Edge) bool { return isFaninLatchDtoQ(e, fanins) })
}

func isFaninLatchDtoQ(e *timing.Edge, fanins timing.VertexSet) bool {
	return e.Role().IsLatchDtoQ() && funcutil.Exists(timing.LatchEnables(e), fanins.Has)
}

// latchFdbkSearch is a depth first search over the fanin of a generated clock. The search does not go past the
// level of the generated clock pins. A vertex is visited once over all the roots.
type latchFdbkSearch struct {
	fanins    timing.VertexSet
	gclkLevel int
	pred      search.SearchPred
	visited   timing.VertexSet
	// onStack maps the vertices of the current path to the length of edgeStack when they were entered
	onStack   map[timing.VertexID]int
	edgeStack []*timing.Edge
	edges     timing.EdgeSet
}

func (s *latchFdbkSearch) follows(e *timing.Edge) bool {
	to := e.ToVertex()
	return s.pred.SearchThru(e) && s.fanins.Has(to) && to.Level() <= s.gclkLevel
}

func (s *latchFdbkSearch) visit(from *timing.Vertex) {
	if s.visited.Has(from) {
		return
	}
	s.visited.Insert(from)
	s.onStack[from.VertexID()] = len(s.edgeStack)
	for _, e := range from.OutEdges() {
		if !s.follows(e) {
			continue
		}
		to := e.ToVertex()
		if start, ok := s.onStack[to.VertexID()]; ok {
			if s.closesLatchLoop(s.edgeStack[start:], e) {
				s.edges.Insert(e)
			}
			continue
		}
		s.edgeStack = append(s.edgeStack, e)
		s.visit(to)
		s.edgeStack = s.edgeStack[:len(s.edgeStack)-1]
	}
	delete(s.onStack, from.VertexID())
}

// closesLatchLoop returns true if the loop made of path and the closing edge goes through a latch enabled from
// inside the fanin
func (s *latchFdbkSearch) closesLatchLoop(path []*timing.Edge, closing *timing.Edge) bool {
	inFanin := func(e *timing.Edge) bool { return isFaninLatchDtoQ(e, s.fanins) }
	return inFanin(closing) || funcutil.Exists(path, inFanin)
}
