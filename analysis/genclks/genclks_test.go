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

package genclks_test

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"reflect"
	"sort"
	"testing"

	"github.com/awslabs/ar-sta-tools/analysis"
	"github.com/awslabs/ar-sta-tools/analysis/config"
	"github.com/awslabs/ar-sta-tools/analysis/genclks"
	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/search"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
	"github.com/awslabs/ar-sta-tools/internal/analysistest"
	"github.com/awslabs/ar-sta-tools/internal/funcutil"
	"github.com/awslabs/ar-sta-tools/internal/graphutil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"
)

//go:embed testdata
var testdata embed.FS

func load(t *testing.T, dir string) (*analysistest.Circuit, *genclks.Genclks) {
	t.Helper()
	c := analysistest.LoadTest(t, testdata, path.Join("testdata", dir))
	c.State.Logger.SetAllOutput(io.Discard)
	return c, genclks.New(c.State)
}

func build(t *testing.T, circuit string) (*analysis.State, *genclks.Genclks) {
	t.Helper()
	state := analysis.NewState(nil)
	state.Logger.SetAllOutput(io.Discard)
	_, err := analysistest.BuildCircuit(state, []byte(circuit))
	require.NoError(t, err)
	return state, genclks.New(state)
}

func circuitDirs(t *testing.T) []string {
	entries, err := fs.ReadDir(testdata, "testdata")
	require.NoError(t, err)
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs
}

func clock(t *testing.T, state *analysis.State, name string) *sdc.Clock {
	t.Helper()
	clk := state.Sdc.FindClock(name)
	require.NotNil(t, clk, "unknown clock %s", name)
	return clk
}

func pin(t *testing.T, state *analysis.State, name string) *timing.Pin {
	t.Helper()
	p := state.Graph.FindPin(name)
	require.NotNil(t, p, "unknown pin %s", name)
	return p
}

func maxAP(state *analysis.State) *sdc.PathAnalysisPt {
	return state.Corners.Corners()[0].FindPathAnalysisPt(sdc.Max)
}

func vertexNames(vertices []*timing.Vertex) []string {
	names := funcutil.Map(vertices, func(v *timing.Vertex) string { return v.String() })
	sort.Strings(names)
	return names
}

func edgeName(e *timing.Edge) string {
	return fmt.Sprintf("%s -> %s", e.FromVertex(), e.ToVertex())
}

func pathVertexNames(p *search.Path) []string {
	return funcutil.Map(search.PathExpanded(p), func(x *search.Path) string { return x.Vertex().String() })
}

func TestCircuits(t *testing.T) {
	for _, dir := range circuitDirs(t) {
		t.Run(dir, func(t *testing.T) {
			c, g := load(t, dir)
			checkCircuit(t, c, g)
		})
	}
}

func checkCircuit(t *testing.T, c *analysistest.Circuit, g *genclks.Genclks) {
	state := c.State
	expect := c.Expect
	g.EnsureInsertionDelays()

	for name, want := range expect.Fanins {
		got := vertexNames(g.Fanins(clock(t, state, name)).Sorted())
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("fanins of %s (-want +got):\n%s", name, diff)
		}
	}
	for name, want := range expect.LatchFdbkEdges {
		got := funcutil.Map(g.LatchFdbkEdges(clock(t, state, name)).Sorted(), edgeName)
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("latch feedback edges of %s (-want +got):\n%s", name, diff)
		}
	}
	for name, master := range expect.Masters {
		clk := clock(t, state, name)
		if assert.NotNil(t, clk.MasterClk(), "master of %s", name) {
			assert.Equal(t, master, clk.MasterClk().Name(), "master of %s", name)
		}
	}

	withError := map[string]bool{}
	for _, name := range expect.Errors {
		withError[name] = true
	}
	for _, clk := range state.Sdc.Clocks() {
		if !clk.IsGenerated() {
			continue
		}
		err := g.CheckMaster(clk)
		if withError[clk.Name()] {
			assert.Error(t, err, "master of %s", clk.Name())
			assert.Nil(t, clk.MasterClk(), "master of %s", clk.Name())
		} else {
			assert.NoError(t, err, "master of %s", clk.Name())
		}
	}
	assert.Len(t, state.Errors(), len(expect.Errors))

	for _, ins := range expect.Insertions {
		ap, err := analysistest.FindPathAnalysisPt(state, ins.Corner, ins.MinMax)
		require.NoError(t, err)
		rfs, err := analysistest.ParseRiseFalls(ins.Transition)
		require.NoError(t, err)
		els, err := analysistest.ParseEarlyLates(ins.EarlyLate)
		require.NoError(t, err)
		for _, rf := range rfs {
			for _, el := range els {
				got := g.InsertionDelay(clock(t, state, ins.Clock), pin(t, state, ins.Pin), rf, el, ap)
				assert.InDelta(t, ins.Value, got, 1e-5, "insertion of %s at %s %s %s %s", ins.Clock, ins.Pin, rf, el, ap)
			}
		}
	}

	for _, sp := range expect.SrcPaths {
		ap, err := analysistest.FindPathAnalysisPt(state, sp.Corner, sp.MinMax)
		require.NoError(t, err)
		rfs, err := analysistest.ParseRiseFalls(sp.Transition)
		require.NoError(t, err)
		for _, rf := range rfs {
			p := g.SrcPath(clock(t, state, sp.Clock), pin(t, state, sp.Pin), rf, ap)
			desc := fmt.Sprintf("source path of %s at %s %s %s", sp.Clock, sp.Pin, rf, ap)
			if len(sp.Vertices) == 0 {
				assert.Nil(t, p, desc)
				continue
			}
			require.NotNil(t, p, desc)
			if diff := cmp.Diff(sp.Vertices, pathVertexNames(p)); diff != "" {
				t.Errorf("%s (-want +got):\n%s", desc, diff)
			}
			assert.InDelta(t, sp.Arrival, p.Arrival(), 1e-5, desc)
			assert.True(t, p.Tag().IsGenClkSrcPath(), desc)
			assert.True(t, p.Tag().FilterDone(), desc)
		}
	}
}

// referenceFanin walks the graph backward from the pins of gclk with gonum's breadth first search
func referenceFanin(state *analysis.State, gclk *sdc.Clock) []string {
	pred := search.SearchPred1{}
	found := map[int64]*timing.Vertex{}
	bf := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			edge := e.(*timing.Edge)
			return pred.SearchThru(edge) && (!gclk.Combinational() || edge.Role().IsCombinationalOrWire())
		},
		Visit: func(n graph.Node) { found[n.ID()] = n.(*timing.Vertex) },
	}
	reversed := graphutil.Reversed{G: state.Graph.Directed()}
	for _, p := range gclk.LeafPins() {
		vertex, drvr := state.Graph.PinVertices(p)
		for _, v := range []*timing.Vertex{vertex, drvr} {
			if v != nil {
				found[v.ID()] = v
				bf.Walk(reversed, v, nil)
			}
		}
	}
	vertices := make([]*timing.Vertex, 0, len(found))
	for _, v := range found {
		vertices = append(vertices, v)
	}
	return vertexNames(vertices)
}

func TestFaninMatchesBackwardReachability(t *testing.T) {
	for _, dir := range circuitDirs(t) {
		t.Run(dir, func(t *testing.T) {
			c, g := load(t, dir)
			for _, clk := range c.State.Sdc.Clocks() {
				if !clk.IsGenerated() {
					continue
				}
				want := referenceFanin(c.State, clk)
				got := vertexNames(g.Fanins(clk).Sorted())
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("fanins of %s (-want +got):\n%s", clk.Name(), diff)
				}
			}
		})
	}
}

func TestPrimaryClock(t *testing.T) {
	c, g := load(t, "divide2")
	clk := clock(t, c.State, "CLK")
	clkPin := pin(t, c.State, "clk")
	ap := maxAP(c.State)
	assert.Nil(t, g.Fanins(clk))
	assert.Nil(t, g.LatchFdbkEdges(clk))
	assert.Nil(t, g.SrcPath(clk, clkPin, sdc.Rise, ap))
	assert.Zero(t, g.InsertionDelay(clk, clkPin, sdc.Rise, sdc.Late, ap))
	assert.True(t, errors.Is(g.EnsureMaster(clk), genclks.ErrNotGenerated))
}

func TestResultsAreCached(t *testing.T) {
	c, g := load(t, "latchloop")
	gl := clock(t, c.State, "GL")
	out := pin(t, c.State, "out")
	ap := maxAP(c.State)

	fanins := g.Fanins(gl)
	assert.Equal(t, reflect.ValueOf(fanins).Pointer(), reflect.ValueOf(g.Fanins(gl)).Pointer())
	edges := g.LatchFdbkEdges(gl)
	assert.Equal(t, reflect.ValueOf(edges).Pointer(), reflect.ValueOf(g.FindLatchFdbkEdges(gl)).Pointer())

	p := g.SrcPath(gl, out, sdc.Rise, ap)
	require.NotNil(t, p)
	assert.Same(t, p, g.SrcPath(gl, out, sdc.Rise, ap))
	ins := g.InsertionDelay(gl, out, sdc.Rise, sdc.Late, ap)
	g.EnsureInsertionDelays()
	assert.Equal(t, ins, g.InsertionDelay(gl, out, sdc.Rise, sdc.Late, ap))
}

func TestSrcPathComputedOnFirstQuery(t *testing.T) {
	c, g := load(t, "divide2")
	div2 := clock(t, c.State, "DIV2")
	q := pin(t, c.State, "ff/Q")
	ap := c.State.Corners.PathAnalysisPts()[1]

	assert.Empty(t, g.RecordedSrcPathPins())
	p := g.SrcPath(div2, q, sdc.Fall, ap)
	require.NotNil(t, p)
	assert.Equal(t, sdc.Fall, p.Transition())
	assert.Equal(t, ap, p.PathAnalysisPt())
	assert.Same(t, p, g.SrcPath(div2, q, sdc.Fall, ap))
	assert.Equal(t, []genclks.ClockPinPair{{Clock: div2.ID(), Pin: q.ID()}}, g.RecordedSrcPathPins())
}

func TestClearOnGraphChange(t *testing.T) {
	c, g := load(t, "divide2")
	var logs bytes.Buffer
	c.State.Logger.SetAllOutput(&logs)
	state := c.State
	div2 := clock(t, state, "DIV2")
	q := pin(t, state, "ff/Q")
	ap := maxAP(state)

	before := g.SrcPath(div2, q, sdc.Rise, ap)
	require.NotNil(t, before)
	assert.NotContains(t, vertexNames(g.Fanins(div2).Sorted()), "ext")

	ext, err := state.Graph.MakePin("ext", timing.DirInput)
	require.NoError(t, err)
	_, err = state.Graph.MakeEdge(state.Graph.PinDrvrVertex(ext), state.Graph.PinLoadVertex(pin(t, state, "clk")),
		timing.RoleWire, timing.UnateArcs())
	require.NoError(t, err)
	assert.Empty(t, g.RecordedSrcPathPins())
	assert.Contains(t, vertexNames(g.Fanins(div2).Sorted()), "ext")

	after := g.SrcPath(div2, q, sdc.Rise, ap)
	require.NotNil(t, after)
	assert.NotSame(t, before, after)
	assert.InDelta(t, before.Arrival(), after.Arrival(), 1e-5)

	// Disabling the clock wire cuts the flip-flop from the master clock
	wire := state.Graph.FindEdge(state.Graph.PinDrvrVertex(pin(t, state, "clk")),
		state.Graph.PinLoadVertex(pin(t, state, "ff/CK")))
	require.NotNil(t, wire)
	state.Graph.SetDisabled(wire, true)
	assert.Equal(t, []string{"ff/CK", "ff/Q"}, vertexNames(g.Fanins(div2).Sorted()))
	assert.Nil(t, g.SrcPath(div2, q, sdc.Rise, ap))
	assert.Zero(t, g.InsertionDelay(div2, q, sdc.Rise, sdc.Late, ap))
	assert.Contains(t, logs.String(), "missing paths from master clock")
}

func TestClearOnClockChange(t *testing.T) {
	c, g := load(t, "divide2")
	state := c.State
	div2 := clock(t, state, "DIV2")
	q := pin(t, state, "ff/Q")
	ap := maxAP(state)

	assert.InDelta(t, 1.5, g.InsertionDelay(div2, q, sdc.Rise, sdc.Late, ap), 1e-5)
	state.Sdc.SetClockLatency(clock(t, state, "CLK"), sdc.Rise, sdc.Late, 1)
	assert.InDelta(t, 2.5, g.InsertionDelay(div2, q, sdc.Rise, sdc.Late, ap), 1e-5)
	assert.InDelta(t, 1.5, g.InsertionDelay(div2, q, sdc.Rise, sdc.Early, ap), 1e-5)
}

func TestClearForgetsInferredMaster(t *testing.T) {
	c, g := load(t, "masters")
	ginf := clock(t, c.State, "GINF")
	out3 := pin(t, c.State, "out3")
	ap := maxAP(c.State)

	g.EnsureInsertionDelays()
	require.NotNil(t, ginf.MasterClk())
	assert.Equal(t, "CLK2", ginf.MasterClk().Name())
	g.Clear()
	assert.Nil(t, ginf.MasterClk())
	assert.Empty(t, g.RecordedSrcPathPins())
	assert.InDelta(t, 1.5, g.InsertionDelay(ginf, out3, sdc.Rise, sdc.Late, ap), 1e-5)
	assert.Equal(t, "CLK2", ginf.MasterClk().Name())
}

func TestMasterErrors(t *testing.T) {
	c, g := load(t, "masters")
	assert.True(t, errors.Is(g.CheckMaster(clock(t, c.State, "GBAD")), genclks.ErrMultipleMasterClocks))
	assert.True(t, errors.Is(g.CheckMaster(clock(t, c.State, "GNONE")), genclks.ErrNoMasterClock))
	// Errors are reported once
	g.CheckMaster(clock(t, c.State, "GBAD"))
	g.EnsureInsertionDelays()
	assert.Len(t, c.State.Errors(), 2)

	// The other generated clocks are analyzed
	pairs := g.RecordedSrcPathPins()
	names := funcutil.Map(pairs, func(p genclks.ClockPinPair) string {
		return c.State.Sdc.Clocks()[p.Clock].Name()
	})
	assert.Equal(t, []string{"GSRC", "GINF"}, names)
}

func TestMasterCycle(t *testing.T) {
	state, g := build(t, `
pins:
  - {name: a}
  - {name: b}
edges:
  - {from: a, to: b}
generated-clocks:
  - {name: GA, pins: [a], source: b, divide-by: 2}
  - {name: GB, pins: [b], source: a, divide-by: 2}
`)
	err := g.CheckMaster(clock(t, state, "GA"))
	assert.True(t, errors.Is(err, genclks.ErrMasterCycle), "got %v", err)
	g.EnsureInsertionDelays()
	assert.Empty(t, g.RecordedSrcPathPins())
}

func TestMissingSrcPathWarning(t *testing.T) {
	state, g := build(t, `
pins:
  - {name: clk, dir: input}
  - {name: out, dir: output}
clocks:
  - {name: CLK, pins: [clk], period: 10}
generated-clocks:
  - {name: G, pins: [out], source: clk, master: CLK, divide-by: 2}
`)
	var logs bytes.Buffer
	state.Logger.SetAllOutput(&logs)
	g.EnsureInsertionDelays()
	assert.Contains(t, logs.String(), "missing paths from master clock")
	assert.Nil(t, g.SrcPath(clock(t, state, "G"), pin(t, state, "out"), sdc.Rise, maxAP(state)))
	assert.Empty(t, g.RecordedSrcPathPins())

	// The warning can be turned off
	state.Config.ReportMissingSrcPaths = false
	logs.Reset()
	g.Clear()
	g.EnsureInsertionDelays()
	assert.NotContains(t, logs.String(), "missing paths")
}

func TestSrcChain(t *testing.T) {
	c, g := load(t, "chain")
	state := c.State
	div4 := clock(t, state, "DIV4")
	ap := maxAP(state)

	chain := g.SrcChain(div4, pin(t, state, "ff2/Q"), sdc.Rise, ap)
	require.Len(t, chain, 2)
	assert.Equal(t, []string{"ff1/Q", "ff2/CK", "ff2/Q"}, pathVertexNames(chain[0]))
	assert.Equal(t, []string{"clk", "ff1/CK", "ff1/Q"}, pathVertexNames(chain[1]))
	assert.Same(t, g.SrcPath(clock(t, state, "DIV2"), pin(t, state, "ff1/Q"), sdc.Rise, ap), chain[1])

	// The master of DIV2 is a primary clock: its chain ends with its own path
	assert.Len(t, g.SrcChain(clock(t, state, "DIV2"), pin(t, state, "ff1/Q"), sdc.Rise, ap), 1)
}

func TestSrcPathOverloads(t *testing.T) {
	c, g := load(t, "chain")
	state := c.State
	div2 := clock(t, state, "DIV2")
	q1 := pin(t, state, "ff1/Q")
	ap := maxAP(state)

	div2Path := g.SrcPath(div2, q1, sdc.Rise, ap)
	require.NotNil(t, div2Path)
	assert.Same(t, div2Path, g.SrcPathForEdge(div2.Edge(sdc.Rise), q1, ap))

	// The source paths of DIV4 are clock paths of DIV2 starting at ff1/Q
	div4Path := g.SrcPath(clock(t, state, "DIV4"), pin(t, state, "ff2/Q"), sdc.Rise, ap)
	require.NotNil(t, div4Path)
	assert.Equal(t, div2.Edge(sdc.Rise), div4Path.ClkEdge())
	assert.Same(t, div2Path, g.SrcPathOf(div4Path))

	assert.Equal(t, state.Graph.PinDrvrVertex(q1), g.SrcPathVertex(q1))
	assert.Equal(t, 4, g.ClkPinMaxLevel(clock(t, state, "DIV4")))
}

func TestLatchFdbkEdgesCloseLatchCycles(t *testing.T) {
	c, g := load(t, "latchloop")
	state := c.State
	gl := clock(t, state, "GL")
	fanins := g.Fanins(gl)
	fdbk := g.LatchFdbkEdges(gl)
	require.NotEmpty(t, fdbk)

	pred := search.SearchPred1{}
	follow := func(e graph.Edge) bool { return pred.SearchThru(e.(*timing.Edge)) }
	cycles := graphutil.FindAllElementaryCycles(graphutil.NewAdjGraph(state.Graph.Directed(), fanins.IDs(), follow))
	require.NotEmpty(t, cycles)
	cycleEdges := func(cycle []int64) []*timing.Edge {
		var edges []*timing.Edge
		for i := 0; i+1 < len(cycle); i++ {
			from := state.Graph.Vertex(timing.VertexID(cycle[i]))
			to := state.Graph.Vertex(timing.VertexID(cycle[i+1]))
			edges = append(edges, state.Graph.FindEdge(from, to))
		}
		return edges
	}
	for _, e := range fdbk.Sorted() {
		onLatchCycle := funcutil.Exists(cycles, func(cycle []int64) bool {
			edges := cycleEdges(cycle)
			return funcutil.Contains(edges, e) &&
				funcutil.Exists(edges, func(x *timing.Edge) bool { return x.Role().IsLatchDtoQ() })
		})
		assert.True(t, onLatchCycle, "%s is not on a latch cycle", edgeName(e))
	}

	// Every latch cycle is broken by some feedback edge
	for _, cycle := range cycles {
		edges := cycleEdges(cycle)
		if funcutil.Exists(edges, func(x *timing.Edge) bool { return x.Role().IsLatchDtoQ() }) {
			assert.True(t, funcutil.Exists(edges, fdbk.Has), "cycle %v is not broken", cycle)
		}
	}
}

func TestLatchOutsideFaninIsNotFeedback(t *testing.T) {
	// The latch loops on itself, but its enable edge is disabled so the enable is outside the fanin of G
	state, g := build(t, `
pins:
  - {name: clk, dir: input}
  - {name: en, dir: input}
  - {name: L/EN}
  - {name: L/D}
  - {name: L/Q}
  - {name: and}
  - {name: out, dir: output}
edges:
  - {from: en, to: L/EN, role: wire}
  - {from: L/EN, to: L/Q, role: latch_en_to_q, sense: rising, delay: [1], disabled: true}
  - {from: L/D, to: L/Q, role: latch_d_to_q, delay: [1]}
  - {from: L/Q, to: L/D, role: wire}
  - {from: L/Q, to: and, delay: [1]}
  - {from: clk, to: and, delay: [1]}
  - {from: and, to: out, role: wire}
clocks:
  - {name: CLK, pins: [clk], period: 10}
generated-clocks:
  - {name: G, pins: [out], source: clk, master: CLK, divide-by: 2}
`)
	gclk := clock(t, state, "G")
	assert.Contains(t, vertexNames(g.Fanins(gclk).Sorted()), "L/D")
	assert.Empty(t, g.LatchFdbkEdges(gclk))
}

func TestCopyGenClkSrcPaths(t *testing.T) {
	c, g := load(t, "divide2")
	state := c.State
	g.EnsureInsertionDelays()

	ck := state.Graph.PinLoadVertex(pin(t, state, "ff/CK"))
	bldr := search.NewTagGroupBldr()
	bldr.Init(ck)
	g.CopyGenClkSrcPaths(ck, bldr)
	// One rising clock path per analysis point reaches the clock pin of the flip-flop
	require.Equal(t, state.Corners.PathAnalysisPtCount(), bldr.Len())
	for _, p := range bldr.Paths() {
		assert.Equal(t, ck, p.Vertex())
		assert.Equal(t, sdc.Rise, p.Transition())
		assert.True(t, p.Tag().IsGenClkSrcPath())
		assert.Equal(t, "DIV2", p.Tag().Filter().Gclk().Name())
	}
	g.CopyGenClkSrcPaths(ck, bldr)
	assert.Equal(t, state.Corners.PathAnalysisPtCount(), bldr.Len())

	// Vertices outside the recorded paths get nothing
	d := state.Graph.PinLoadVertex(pin(t, state, "ff/D"))
	bldr.Init(d)
	g.CopyGenClkSrcPaths(d, bldr)
	assert.True(t, bldr.Empty())
}

func TestTagMaker(t *testing.T) {
	c, g := load(t, "divide2")
	calls := 0
	g.SetTagMaker(func(tags *search.TagSet, gclk, master *sdc.Clock, masterPin *timing.Pin, rf sdc.RiseFall,
		filter *search.FilterPath, insertion search.Arrival, ap *sdc.PathAnalysisPt) *search.Tag {
		calls++
		assert.Equal(t, "DIV2", gclk.Name())
		assert.Equal(t, "CLK", master.Name())
		assert.Equal(t, "clk", masterPin.Name())
		return genclks.DefaultTag(tags, gclk, master, masterPin, rf, filter, insertion, ap)
	})
	g.EnsureInsertionDelays()
	assert.Equal(t, c.State.Corners.PathAnalysisPtCount()*sdc.RiseFallCount, calls)
}

func TestSrcFilterMaker(t *testing.T) {
	c, g := load(t, "divide2")
	state := c.State
	div2 := clock(t, state, "DIV2")
	q := pin(t, state, "ff/Q")
	ap := maxAP(state)

	// A filter through the clock pin of the flip-flop is met on the way to the generated clock pin
	g.SetSrcFilterMaker(func(gclk, master *sdc.Clock) *search.FilterPath {
		return search.NewFilterPath(gclk, master, pin(t, state, "ff/CK"))
	})
	assert.InDelta(t, 1.5, g.InsertionDelay(div2, q, sdc.Rise, sdc.Late, ap), 1e-5)

	// No source path goes through the inverter
	g.SetSrcFilterMaker(func(gclk, master *sdc.Clock) *search.FilterPath {
		return search.NewFilterPath(gclk, master, pin(t, state, "inv/A"))
	})
	assert.Nil(t, g.SrcPath(div2, q, sdc.Rise, ap))
	assert.Zero(t, g.InsertionDelay(div2, q, sdc.Rise, sdc.Late, ap))
}

func TestDebugLogging(t *testing.T) {
	c, g := load(t, "worst")
	var logs bytes.Buffer
	c.State.Logger.SetAllOutput(&logs)
	g.EnsureInsertionDelays()
	assert.Contains(t, logs.String(), "[DEBUG]")
	assert.Contains(t, logs.String(), "find generated clk insertion delays")
	assert.NotContains(t, logs.String(), "[TRACE]")
}

func TestTraceLatchLoops(t *testing.T) {
	c, g := load(t, "latchside")
	require.Equal(t, config.TraceLevel, c.State.Logger.Level())
	var logs bytes.Buffer
	c.State.Logger.SetAllOutput(&logs)
	g.EnsureInsertionDelays()
	assert.Contains(t, logs.String(), "GL: latch feedback edge g/Y -> L/D")
	assert.Contains(t, logs.String(), "GL: latch loop L/D -> L/Q -> g/A -> g/Y -> L/D")
}
