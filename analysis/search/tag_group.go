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

package search

import (
	"sort"

	"github.com/awslabs/ar-sta-tools/analysis/timing"
)

// TagGroupBldr collects the paths arriving at a vertex, keeping one path per tag: the path with the worst arrival
// for the min/max selection of the tag's analysis point. Ties keep the path inserted first.
type TagGroupBldr struct {
	vertex *timing.Vertex
	paths  map[int]*Path
}

// NewTagGroupBldr returns an empty builder
func NewTagGroupBldr() *TagGroupBldr {
	return &TagGroupBldr{paths: map[int]*Path{}}
}

// Init empties the builder and sets the vertex it collects paths for
func (b *TagGroupBldr) Init(vertex *timing.Vertex) {
	b.vertex = vertex
	b.paths = map[int]*Path{}
}

// Vertex returns the vertex the builder collects paths for
func (b *TagGroupBldr) Vertex() *timing.Vertex { return b.vertex }

// InsertPath adds path to the group. It returns true if the path was kept, i.e. its tag is new or it has a worse
// arrival than the path already held for its tag. Inserting the path already held is a no-op.
func (b *TagGroupBldr) InsertPath(path *Path) bool {
	index := path.tag.index
	prev, ok := b.paths[index]
	if ok && (prev == path || !path.MinMax().Greater(path.arrival, prev.arrival)) {
		return false
	}
	b.paths[index] = path
	return true
}

// Empty returns true if the builder holds no path
func (b *TagGroupBldr) Empty() bool { return len(b.paths) == 0 }

// Len returns the number of paths held by the builder
func (b *TagGroupBldr) Len() int { return len(b.paths) }

// Paths returns the paths held by the builder, ordered by tag index
func (b *TagGroupBldr) Paths() []*Path {
	paths := make([]*Path, 0, len(b.paths))
	for _, p := range b.paths {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].tag.index < paths[j].tag.index })
	return paths
}

// Arrivals stores the paths of every vertex
type Arrivals struct {
	paths map[timing.VertexID][]*Path
}

// NewArrivals returns an empty arrival store
func NewArrivals() *Arrivals {
	return &Arrivals{paths: map[timing.VertexID][]*Path{}}
}

// SetVertexArrivals replaces the paths of the builder's vertex with the paths of the builder
func (a *Arrivals) SetVertexArrivals(bldr *TagGroupBldr) {
	if bldr.Empty() {
		delete(a.paths, bldr.vertex.VertexID())
		return
	}
	a.paths[bldr.vertex.VertexID()] = bldr.Paths()
}

// VertexPaths returns the paths at vertex, ordered by tag index
func (a *Arrivals) VertexPaths(vertex *timing.Vertex) []*Path {
	return a.paths[vertex.VertexID()]
}

// Clear removes every path
func (a *Arrivals) Clear() {
	a.paths = map[timing.VertexID][]*Path{}
}
