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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// VertexSet is a set of vertices keyed by their stable identifier
type VertexSet map[VertexID]*Vertex

// NewVertexSet returns an empty vertex set
func NewVertexSet() VertexSet { return VertexSet{} }

// Has returns true if v is in the set
func (s VertexSet) Has(v *Vertex) bool {
	if v == nil {
		return false
	}
	_, ok := s[v.id]
	return ok
}

// Insert adds v to the set
func (s VertexSet) Insert(v *Vertex) { s[v.id] = v }

// Sorted returns the vertices of the set ordered by identifier
func (s VertexSet) Sorted() []*Vertex {
	ids := maps.Keys(s)
	slices.Sort(ids)
	vertices := make([]*Vertex, len(ids))
	for i, id := range ids {
		vertices[i] = s[id]
	}
	return vertices
}

// IDs returns the gonum node ids of the vertices in the set, in increasing order
func (s VertexSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, int64(id))
	}
	slices.Sort(ids)
	return ids
}

// EdgeSet is a set of edges keyed by their stable identifier
type EdgeSet map[EdgeID]*Edge

// NewEdgeSet returns an empty edge set
func NewEdgeSet() EdgeSet { return EdgeSet{} }

// Has returns true if e is in the set
func (s EdgeSet) Has(e *Edge) bool {
	if e == nil {
		return false
	}
	_, ok := s[e.id]
	return ok
}

// Insert adds e to the set
func (s EdgeSet) Insert(e *Edge) { s[e.id] = e }

// Sorted returns the edges of the set ordered by identifier
func (s EdgeSet) Sorted() []*Edge {
	ids := maps.Keys(s)
	slices.Sort(ids)
	edges := make([]*Edge, len(ids))
	for i, id := range ids {
		edges[i] = s[id]
	}
	return edges
}
