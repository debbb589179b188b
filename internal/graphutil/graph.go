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

package graphutil

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
)

// AdjGraph is an adjacency view over a subset of the nodes of a gonum directed graph, to work with existing graph
// libraries. It implements the methods to satisfy yourbasic's graph.Iterator and gonum's traverse.Graph.
// Node ids must be dense: the ids of the original graph are used as yourbasic vertex numbers.
type AdjGraph struct {
	// The order of the original graph
	order int

	// IDMap maps from node IDs to the nodes of the original graph
	IDMap map[int64]graph.Node

	// Keys are all the node IDs, in increasing order
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge between IDMap[x] and IDMap[y]
	Edges map[int64]map[int64]graph.Edge
}

// NewAdjGraph returns the view of g restricted to the nodes in include, keeping only the edges between included
// nodes for which follow returns true. A nil follow keeps every edge.
func NewAdjGraph(g graph.Directed, include []int64, follow func(graph.Edge) bool) AdjGraph {
	order := 0
	nodes := g.Nodes()
	for nodes.Next() {
		if id := int(nodes.Node().ID()); id >= order {
			order = id + 1
		}
	}
	keys := append([]int64(nil), include...)
	slices.Sort(keys)
	idmap := make(map[int64]graph.Node, len(keys))
	for _, id := range keys {
		idmap[id] = g.Node(id)
	}
	edges := make(map[int64]map[int64]graph.Edge, len(keys))
	for _, u := range keys {
		edges[u] = map[int64]graph.Edge{}
		succs := g.From(u)
		for succs.Next() {
			v := succs.Node().ID()
			if _, ok := idmap[v]; !ok {
				continue
			}
			e := g.Edge(u, v)
			if follow == nil || follow(e) {
				edges[u][v] = e
			}
		}
	}
	return AdjGraph{order: order, IDMap: idmap, Edges: edges, Keys: keys}
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and node ids are the same as in origin, meaning that node indices will stay consistent
// across subgraphs.
func Subgraph(original AdjGraph, include []int64) AdjGraph {
	idmap := make(map[int64]graph.Node, len(include))
	edges := make(map[int64]map[int64]graph.Edge, len(include))
	keys := make([]int64, 0, len(include))

	for _, i := range include {
		if n, ok := original.IDMap[i]; ok {
			keys = append(keys, i)
			idmap[i] = n
		}
	}

	for _, i := range keys {
		edges[i] = map[int64]graph.Edge{}
		for j, e := range original.Edges[i] {
			if _, ok := idmap[j]; ok {
				edges[i][j] = e
			}
		}
	}

	return AdjGraph{
		order: original.order,
		IDMap: idmap,
		Edges: edges,
		Keys:  keys,
	}
}

// Order implements the order of the graph.Iterator interface for the AdjGraph
func (a AdjGraph) Order() int {
	return a.order
}

// Visit implements the graph.Iterator interface for the AdjGraph. Neighbors are visited in increasing id order.
func (a AdjGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for _, w := range a.successors(int64(v)) {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

func (a AdjGraph) successors(id int64) []int64 {
	out := a.Edges[id]
	ids := make([]int64, 0, len(out))
	for w := range out {
		ids = append(ids, w)
	}
	slices.Sort(ids)
	return ids
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (a AdjGraph) Node(id int64) graph.Node {
	return a.IDMap[id]
}

// Nodes returns the set of nodes in the graph
func (a AdjGraph) Nodes() graph.Nodes {
	return NewNodeSet(a.IDMap, a.Keys)
}

// From returns the set of nodes reachable from the id
func (a AdjGraph) From(id int64) graph.Nodes {
	return NewNodeSet(a.IDMap, a.successors(id))
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (a AdjGraph) HasEdgeBetween(xid, yid int64) bool {
	_, xy := a.Edges[xid][yid]
	_, yx := a.Edges[yid][xid]
	return xy || yx
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (a AdjGraph) Edge(uid, vid int64) graph.Edge {
	if e, ok := a.Edges[uid][vid]; ok {
		return e
	}
	return nil
}

// *************** Reversed view **********************

// Reversed is a view of a directed graph with every edge reversed. It satisfies gonum's traverse.Graph, so that
// breadth first and depth first walks over a Reversed view explore the fanin of the starting node.
type Reversed struct {
	G graph.Directed
}

// From returns the nodes with an edge into id in the original graph
func (r Reversed) From(id int64) graph.Nodes {
	return r.G.To(id)
}

// Edge returns the reversal of the edge vid -> uid of the original graph, or nil
func (r Reversed) Edge(uid, vid int64) graph.Edge {
	e := r.G.Edge(vid, uid)
	if e == nil {
		return nil
	}
	return e.ReversedEdge()
}

// *************** Nodes implementation **********************

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]graph.Node

	// ids is the set of node ids in the iterator
	ids []int64

	// cur is the current index of the iterator. The current node is nodes[ids[cur]]
	// invariant: -1 <= cur < len(ids)
	cur int
}

// NewNodeSet returns an iterator over the nodes with the given ids, in order
func NewNodeSet(nodes map[int64]graph.Node, ids []int64) *NodeSet {
	return &NodeSet{nodes: nodes, ids: ids, cur: -1}
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of nodes remaining in the iterator
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset resets the id of the current node in the set
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.ids) {
		return nil
	}
	return ns.nodes[ns.ids[ns.cur]]
}
