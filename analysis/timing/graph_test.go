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

package timing_test

import (
	"testing"

	"github.com/awslabs/ar-sta-tools/analysis/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGraph struct {
	*timing.Graph
	t *testing.T
}

func (g testGraph) pin(name string, dir timing.PinDirection) *timing.Pin {
	p, err := g.MakePin(name, dir)
	require.NoError(g.t, err)
	return p
}

func (g testGraph) edge(from, to *timing.Pin, role timing.TimingRole) *timing.Edge {
	e, err := g.MakeEdge(g.PinDrvrVertex(from), g.PinLoadVertex(to), role, timing.UnateArcs(1))
	require.NoError(g.t, err)
	return e
}

func TestMakePin(t *testing.T) {
	g := testGraph{timing.NewGraph(), t}
	a := g.pin("a", timing.DirInput)
	io := g.pin("io", timing.DirBidirect)

	v, drvr := g.PinVertices(a)
	require.NotNil(t, v)
	assert.Nil(t, drvr)
	assert.Equal(t, v, g.PinDrvrVertex(a))

	load, drvr := g.PinVertices(io)
	require.NotNil(t, drvr)
	assert.NotEqual(t, load, drvr)
	assert.True(t, drvr.IsBidirectDriver())
	assert.Equal(t, drvr, g.PinDrvrVertex(io))
	assert.Equal(t, load, g.PinLoadVertex(io))
	assert.Equal(t, "io (driver)", drvr.String())
	assert.Equal(t, "io", load.String())

	_, err := g.MakePin("a", timing.DirOutput)
	assert.Error(t, err)
	_, err = g.MakePin("", timing.DirOutput)
	assert.Error(t, err)
	assert.Equal(t, a, g.FindPin("a"))
	assert.Nil(t, g.FindPin("b"))
}

func TestMakeEdge(t *testing.T) {
	g := testGraph{timing.NewGraph(), t}
	a := g.pin("a", timing.DirInput)
	b := g.pin("b", timing.DirOutput)
	e := g.edge(a, b, timing.RoleCombinational)
	assert.Equal(t, e, g.FindEdge(g.PinDrvrVertex(a), g.PinLoadVertex(b)))
	assert.Nil(t, g.FindEdge(g.PinLoadVertex(b), g.PinDrvrVertex(a)))
	assert.Equal(t, "a -> b combinational", e.String())

	_, err := g.MakeEdge(g.PinDrvrVertex(a), g.PinLoadVertex(b), timing.RoleWire, nil)
	assert.Error(t, err, "duplicate edge")
	_, err = g.MakeEdge(g.PinDrvrVertex(a), g.PinDrvrVertex(a), timing.RoleWire, nil)
	assert.Error(t, err, "self edge")
	other := timing.NewGraph()
	c, err := other.MakePin("c", timing.DirInput)
	require.NoError(t, err)
	_, err = g.MakeEdge(g.PinDrvrVertex(a), other.PinLoadVertex(c), timing.RoleWire, nil)
	assert.Error(t, err, "vertex of another graph")
}

func TestLevelsOfLoops(t *testing.T) {
	g := testGraph{timing.NewGraph(), t}
	in := g.pin("in", timing.DirInput)
	x := g.pin("x", timing.DirInternal)
	y := g.pin("y", timing.DirInternal)
	z := g.pin("z", timing.DirInternal)
	out := g.pin("out", timing.DirOutput)
	g.edge(in, x, timing.RoleWire)
	g.edge(x, y, timing.RoleCombinational)
	g.edge(y, z, timing.RoleCombinational)
	g.edge(z, x, timing.RoleWire)
	g.edge(z, out, timing.RoleWire)
	// Checks do not count
	g.edge(out, in, timing.RoleSetup)

	level := func(p *timing.Pin) int { return g.PinLoadVertex(p).Level() }
	assert.Equal(t, 0, level(in))
	assert.Equal(t, 1, level(x))
	assert.Equal(t, 1, level(y))
	assert.Equal(t, 1, level(z))
	assert.Equal(t, 2, level(out))
	assert.Equal(t, 2, g.MaxLevel())

	// Levels follow graph changes
	w := g.pin("w", timing.DirInternal)
	g.edge(out, w, timing.RoleWire)
	assert.Equal(t, 3, g.MaxLevel())
}

func TestLatchEnables(t *testing.T) {
	g := testGraph{timing.NewGraph(), t}
	en := g.pin("L/EN", timing.DirInternal)
	d := g.pin("L/D", timing.DirInternal)
	q := g.pin("L/Q", timing.DirInternal)
	g.edge(en, q, timing.RoleLatchEnToQ)
	dToQ := g.edge(d, q, timing.RoleLatchDtoQ)
	wire := g.edge(q, d, timing.RoleWire)

	assert.Equal(t, []*timing.Vertex{g.PinLoadVertex(en)}, timing.LatchEnables(dToQ))
	assert.Nil(t, timing.LatchEnables(wire))
}

func TestGraphEvents(t *testing.T) {
	g := testGraph{timing.NewGraph(), t}
	events := 0
	g.Subscribe(func() { events++ })
	a := g.pin("a", timing.DirInput)
	b := g.pin("b", timing.DirOutput)
	e := g.edge(a, b, timing.RoleWire)
	assert.Equal(t, 3, events)
	g.SetDisabled(e, true)
	assert.True(t, e.IsDisabled())
	assert.Equal(t, 4, events)
	// No change, no event
	g.SetDisabled(e, true)
	assert.Equal(t, 4, events)
}

func TestSets(t *testing.T) {
	g := testGraph{timing.NewGraph(), t}
	a := g.pin("a", timing.DirInput)
	b := g.pin("b", timing.DirInternal)
	c := g.pin("c", timing.DirOutput)
	ab := g.edge(a, b, timing.RoleWire)
	bc := g.edge(b, c, timing.RoleWire)

	vs := timing.NewVertexSet()
	vs.Insert(g.PinLoadVertex(c))
	vs.Insert(g.PinLoadVertex(a))
	vs.Insert(g.PinLoadVertex(a))
	assert.Equal(t, []*timing.Vertex{g.PinLoadVertex(a), g.PinLoadVertex(c)}, vs.Sorted())
	assert.Equal(t, []int64{g.PinLoadVertex(a).ID(), g.PinLoadVertex(c).ID()}, vs.IDs())
	assert.True(t, vs.Has(g.PinLoadVertex(c)))
	assert.False(t, vs.Has(g.PinLoadVertex(b)))
	assert.False(t, vs.Has(nil))

	es := timing.NewEdgeSet()
	es.Insert(bc)
	es.Insert(ab)
	assert.Equal(t, []*timing.Edge{ab, bc}, es.Sorted())
	assert.True(t, es.Has(ab))
}
