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

import "github.com/awslabs/ar-sta-tools/analysis/timing"

// BfsDirection is the direction of a breadth first traversal
type BfsDirection int

const (
	// BfsFwd visits vertices in increasing level order, following out edges
	BfsFwd BfsDirection = iota
	// BfsBkwd visits vertices in decreasing level order, following in edges
	BfsBkwd
)

// BfsIterator is a level ordered breadth first traversal of the timing graph. Vertices are queued in buckets by
// level; within a level they are visited in the order they were queued. A vertex is visited at most once until
// Reset. Levels are the graph levels unless the iterator is built with its own level function.
type BfsIterator struct {
	dir     BfsDirection
	pred    SearchPred
	levelOf func(*timing.Vertex) int
	buckets map[int][]*timing.Vertex
	queued  timing.VertexSet
	pending int
	// level is the level being visited. Forward traversals never queue below it, and backward ones never above,
	// except for explicit Enqueue calls which move it.
	level   int
	started bool
}

// NewBfsFwdIterator returns a forward iterator following the edges admitted by pred
func NewBfsFwdIterator(pred SearchPred) *BfsIterator {
	return newBfsIterator(BfsFwd, pred)
}

// NewBfsBkwdIterator returns a backward iterator following the edges admitted by pred
func NewBfsBkwdIterator(pred SearchPred) *BfsIterator {
	return newBfsIterator(BfsBkwd, pred)
}

// NewBfsFwdIteratorLevels returns a forward iterator following the edges admitted by pred, visiting vertices in
// the order of levelOf. A vertex is only visited after the queued vertices of lower level, so levelOf must
// increase along every edge admitted by pred for the arrivals of all the predecessors of a vertex to be known
// when it is visited.
func NewBfsFwdIteratorLevels(pred SearchPred, levelOf func(*timing.Vertex) int) *BfsIterator {
	it := newBfsIterator(BfsFwd, pred)
	it.levelOf = levelOf
	return it
}

func newBfsIterator(dir BfsDirection, pred SearchPred) *BfsIterator {
	it := &BfsIterator{dir: dir, pred: pred, levelOf: (*timing.Vertex).Level}
	it.Reset()
	return it
}

// Reset empties the queue and forgets the visited vertices
func (it *BfsIterator) Reset() {
	it.buckets = map[int][]*timing.Vertex{}
	it.queued = timing.NewVertexSet()
	it.pending = 0
	it.level = 0
	it.started = false
}

// SearchPred returns the predicate of the iterator
func (it *BfsIterator) SearchPred() SearchPred { return it.pred }

// Enqueue adds v to the queue, unless it has already been queued since the last Reset
func (it *BfsIterator) Enqueue(v *timing.Vertex) {
	if it.queued.Has(v) {
		return
	}
	it.queued.Insert(v)
	level := it.levelOf(v)
	it.buckets[level] = append(it.buckets[level], v)
	it.pending++
	if !it.started || it.before(level, it.level) {
		it.level = level
		it.started = true
	}
}

// EnqueueAdjacentVertices queues the successors (forward) or predecessors (backward) of v admitted by the
// iterator's predicate
func (it *BfsIterator) EnqueueAdjacentVertices(v *timing.Vertex) {
	it.EnqueueAdjacentVerticesPred(v, it.pred)
}

// EnqueueAdjacentVerticesPred queues the successors (forward) or predecessors (backward) of v admitted by pred
func (it *BfsIterator) EnqueueAdjacentVerticesPred(v *timing.Vertex, pred SearchPred) {
	if it.dir == BfsFwd {
		if !pred.SearchFrom(v) {
			return
		}
		for _, e := range v.OutEdges() {
			if pred.SearchThru(e) && pred.SearchTo(e.ToVertex()) {
				it.Enqueue(e.ToVertex())
			}
		}
		return
	}
	if !pred.SearchTo(v) {
		return
	}
	for _, e := range v.InEdges() {
		if pred.SearchThru(e) && pred.SearchFrom(e.FromVertex()) {
			it.Enqueue(e.FromVertex())
		}
	}
}

// HasNext returns true if some vertex is waiting to be visited
func (it *BfsIterator) HasNext() bool { return it.pending > 0 }

// Next returns the next vertex to visit, or nil when the queue is empty
func (it *BfsIterator) Next() *timing.Vertex {
	if it.pending == 0 {
		return nil
	}
	for len(it.buckets[it.level]) == 0 {
		delete(it.buckets, it.level)
		if it.dir == BfsFwd {
			it.level++
		} else {
			it.level--
		}
	}
	bucket := it.buckets[it.level]
	v := bucket[0]
	it.buckets[it.level] = bucket[1:]
	it.pending--
	return v
}

// Visit visits every queued vertex and the vertices visitor queues, and returns the number of vertices visited
func (it *BfsIterator) Visit(visitor func(v *timing.Vertex)) int {
	count := 0
	for it.HasNext() {
		visitor(it.Next())
		count++
	}
	return count
}

func (it *BfsIterator) before(l1, l2 int) bool {
	if it.dir == BfsFwd {
		return l1 < l2
	}
	return l1 > l2
}
