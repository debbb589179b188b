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

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// VertexID is the stable identifier of a vertex. It is also the gonum node id of the vertex.
type VertexID int64

// EdgeID is the stable identifier of an edge
type EdgeID int

// Vertex is a node of the timing graph. A pin has one vertex, except bidirectional pins which have a load vertex
// and a driver vertex.
//
// Vertex implements gonum's graph.Node
type Vertex struct {
	id          VertexID
	pin         *Pin
	isBidirDrvr bool
	level       int
	graph       *Graph
	in          []*Edge
	out         []*Edge
}

// ID implements graph.Node
func (v *Vertex) ID() int64 { return int64(v.id) }

// VertexID returns the typed identifier of the vertex
func (v *Vertex) VertexID() VertexID { return v.id }

// Pin returns the pin of the vertex
func (v *Vertex) Pin() *Pin { return v.pin }

// IsBidirectDriver returns true if the vertex is the driver vertex of a bidirectional pin
func (v *Vertex) IsBidirectDriver() bool { return v.isBidirDrvr }

// Level returns the topological level of the vertex. Levels are recomputed lazily after the graph changes.
func (v *Vertex) Level() int {
	v.graph.ensureLevelized()
	return v.level
}

// InEdges returns the edges ending at v, in creation order. The slice must not be modified.
func (v *Vertex) InEdges() []*Edge { return v.in }

// OutEdges returns the edges starting at v, in creation order. The slice must not be modified.
func (v *Vertex) OutEdges() []*Edge { return v.out }

func (v *Vertex) String() string {
	if v == nil {
		return "<nil vertex>"
	}
	if v.isBidirDrvr {
		return v.pin.name + " (driver)"
	}
	return v.pin.name
}

// Edge is a timing edge between two vertices. It carries one timing arc per (from, to) transition pair it
// supports.
//
// Edge implements gonum's graph.Edge
type Edge struct {
	id       EdgeID
	from     *Vertex
	to       *Vertex
	role     TimingRole
	arcs     []*TimingArc
	disabled bool
}

// From implements graph.Edge
func (e *Edge) From() graph.Node { return e.from }

// To implements graph.Edge
func (e *Edge) To() graph.Node { return e.to }

// ReversedEdge implements graph.Edge. The reversed edge shares the arcs of e.
func (e *Edge) ReversedEdge() graph.Edge {
	return &Edge{id: e.id, from: e.to, to: e.from, role: e.role, arcs: e.arcs, disabled: e.disabled}
}

// EdgeID returns the stable identifier of the edge
func (e *Edge) EdgeID() EdgeID { return e.id }

// FromVertex returns the source vertex of the edge
func (e *Edge) FromVertex() *Vertex { return e.from }

// ToVertex returns the target vertex of the edge
func (e *Edge) ToVertex() *Vertex { return e.to }

// Role returns the timing role of the edge
func (e *Edge) Role() TimingRole { return e.role }

// Arcs returns the timing arcs of the edge
func (e *Edge) Arcs() []*TimingArc { return e.arcs }

// IsDisabled returns true if the edge has been disabled (e.g. by a set_disable_timing constraint)
func (e *Edge) IsDisabled() bool { return e.disabled }

func (e *Edge) String() string {
	return fmt.Sprintf("%s -> %s %s", e.from, e.to, e.role)
}

// Graph is the timing graph of a netlist. Vertices and edges are stored in a gonum simple.DirectedGraph, and the
// Graph additionally keeps creation-ordered adjacency lists so that traversals are deterministic.
//
// Every mutation publishes a "graph changed" event to the subscribers registered with Subscribe.
type Graph struct {
	g           *simple.DirectedGraph
	pins        []*Pin
	pinsByName  map[string]*Pin
	vertices    []*Vertex
	pinVertex   map[PinID]*Vertex
	pinDrvr     map[PinID]*Vertex
	edges       []*Edge
	levelsValid bool
	maxLevel    int
	subscribers []func()
}

// NewGraph returns an empty timing graph
func NewGraph() *Graph {
	return &Graph{
		g:          simple.NewDirectedGraph(),
		pinsByName: map[string]*Pin{},
		pinVertex:  map[PinID]*Vertex{},
		pinDrvr:    map[PinID]*Vertex{},
	}
}

// Subscribe registers f to be called every time the graph changes
func (g *Graph) Subscribe(f func()) {
	g.subscribers = append(g.subscribers, f)
}

func (g *Graph) changed() {
	g.levelsValid = false
	for _, f := range g.subscribers {
		f()
	}
}

// Directed returns the gonum view of the graph. Nodes are *Vertex and edges are *Edge.
func (g *Graph) Directed() graph.Directed { return g.g }

// MakePin creates a pin with its vertices. Bidirectional pins get a load vertex and a driver vertex.
func (g *Graph) MakePin(name string, dir PinDirection) (*Pin, error) {
	if name == "" {
		return nil, errors.New("empty pin name")
	}
	if _, ok := g.pinsByName[name]; ok {
		return nil, errors.Errorf("duplicate pin %s", name)
	}
	pin := &Pin{id: PinID(len(g.pins)), name: name, dir: dir}
	g.pins = append(g.pins, pin)
	g.pinsByName[name] = pin
	g.pinVertex[pin.id] = g.makeVertex(pin, false)
	if dir == DirBidirect {
		g.pinDrvr[pin.id] = g.makeVertex(pin, true)
	}
	g.changed()
	return pin, nil
}

func (g *Graph) makeVertex(pin *Pin, isBidirDrvr bool) *Vertex {
	v := &Vertex{id: VertexID(len(g.vertices)), pin: pin, isBidirDrvr: isBidirDrvr, graph: g}
	g.vertices = append(g.vertices, v)
	g.g.AddNode(v)
	return v
}

// MakeEdge creates an edge between two vertices of the graph. There can be at most one edge between two vertices
// and self edges are rejected.
func (g *Graph) MakeEdge(from, to *Vertex, role TimingRole, arcs []*TimingArc) (*Edge, error) {
	if from == nil || to == nil {
		return nil, errors.New("edge with missing vertex")
	}
	if from.graph != g || to.graph != g {
		return nil, errors.Errorf("edge %s -> %s: vertex not in graph", from, to)
	}
	if from == to {
		return nil, errors.Errorf("self edge on %s", from)
	}
	if g.g.HasEdgeFromTo(from.ID(), to.ID()) {
		return nil, errors.Errorf("duplicate edge %s -> %s", from, to)
	}
	e := &Edge{id: EdgeID(len(g.edges)), from: from, to: to, role: role, arcs: arcs}
	g.edges = append(g.edges, e)
	g.g.SetEdge(e)
	from.out = append(from.out, e)
	to.in = append(to.in, e)
	g.changed()
	return e, nil
}

// SetDisabled enables or disables an edge
func (g *Graph) SetDisabled(e *Edge, disabled bool) {
	if e.disabled != disabled {
		e.disabled = disabled
		g.changed()
	}
}

// FindPin returns the pin named name, or nil
func (g *Graph) FindPin(name string) *Pin { return g.pinsByName[name] }

// Pins returns all the pins in creation order
func (g *Graph) Pins() []*Pin { return g.pins }

// Vertices returns all the vertices, indexed by VertexID
func (g *Graph) Vertices() []*Vertex { return g.vertices }

// Vertex returns the vertex with identifier id, or nil
func (g *Graph) Vertex(id VertexID) *Vertex {
	if id < 0 || int(id) >= len(g.vertices) {
		return nil
	}
	return g.vertices[id]
}

// Edges returns all the edges, indexed by EdgeID
func (g *Graph) Edges() []*Edge { return g.edges }

// FindEdge returns the edge from -> to, or nil
func (g *Graph) FindEdge(from, to *Vertex) *Edge {
	if e, ok := g.g.Edge(from.ID(), to.ID()).(*Edge); ok {
		return e
	}
	return nil
}

// PinVertices returns the vertex of the pin and, for bidirectional pins, its driver vertex (nil otherwise)
func (g *Graph) PinVertices(pin *Pin) (vertex *Vertex, bidirectDrvrVertex *Vertex) {
	return g.pinVertex[pin.id], g.pinDrvr[pin.id]
}

// PinDrvrVertex returns the vertex driving out of the pin
func (g *Graph) PinDrvrVertex(pin *Pin) *Vertex {
	if v, ok := g.pinDrvr[pin.id]; ok {
		return v
	}
	return g.pinVertex[pin.id]
}

// PinLoadVertex returns the vertex loading the pin
func (g *Graph) PinLoadVertex(pin *Pin) *Vertex {
	return g.pinVertex[pin.id]
}

// MaxLevel returns the maximum level of the graph
func (g *Graph) MaxLevel() int {
	g.ensureLevelized()
	return g.maxLevel
}

// LatchEnables returns the enable vertices of the latch whose D->Q edge is dToQ. It returns nil if dToQ is not a
// latch D->Q edge.
func LatchEnables(dToQ *Edge) []*Vertex {
	if dToQ.role != RoleLatchDtoQ {
		return nil
	}
	var enables []*Vertex
	for _, e := range dToQ.to.in {
		if e.role == RoleLatchEnToQ {
			enables = append(enables, e.from)
		}
	}
	return enables
}
