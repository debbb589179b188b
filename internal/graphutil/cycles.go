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
	"sort"

	"github.com/yourbasic/graph"
)

// CyclicVertices returns the ids of the nodes of g that lie on some cycle of g, i.e. the members of the strongly
// connected components with at least two nodes. Self loops are ignored.
func CyclicVertices(g AdjGraph) map[int64]bool {
	cyclic := map[int64]bool{}
	for _, component := range graph.StrongComponents(g) {
		if len(component) >= 2 {
			for _, v := range component {
				cyclic[int64(v)] = true
			}
		}
	}
	return cyclic
}

// FindAllElementaryCycles returns every elementary cycle of g with Johnson's algorithm ("Finding All The Elementary
// Circuits of a Directed Graph", 1975). Each cycle starts and ends with its least node id.
func FindAllElementaryCycles(g AdjGraph) [][]int64 {
	j := &johnson{}
	for start := 0; start < len(g.Keys); {
		sub := Subgraph(g, g.Keys[start:])
		least := leastComponent(sub)
		if least == nil {
			break
		}
		root := least[0]
		j.blocked = map[int64]bool{}
		j.blockers = map[int64]map[int64]bool{}
		j.stack = j.stack[:0]
		j.circuit(root, root, Subgraph(sub, least))
		start = sort.Search(len(g.Keys), func(i int) bool { return g.Keys[i] > root })
	}
	return j.cycles
}

// leastComponent returns the sorted ids of the non-trivial strongly connected component of g holding the least id
func leastComponent(g AdjGraph) []int64 {
	var least []int64
	for _, component := range graph.StrongComponents(g) {
		if len(component) < 2 {
			continue
		}
		ids := make([]int64, len(component))
		for i, v := range component {
			ids[i] = int64(v)
		}
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
		if least == nil || ids[0] < least[0] {
			least = ids
		}
	}
	return least
}

type johnson struct {
	blocked  map[int64]bool
	blockers map[int64]map[int64]bool
	stack    []int64
	cycles   [][]int64
}

func (j *johnson) unblock(u int64) {
	j.blocked[u] = false
	for w := range j.blockers[u] {
		delete(j.blockers[u], w)
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}

// circuit extends the stack from v looking for cycles back to root, and reports whether one was found
func (j *johnson) circuit(v, root int64, g AdjGraph) bool {
	found := false
	j.stack = append(j.stack, v)
	j.blocked[v] = true
	succs := g.successors(v)
	for _, w := range succs {
		switch {
		case w == root:
			cycle := append(append([]int64(nil), j.stack...), root)
			j.cycles = append(j.cycles, cycle)
			found = true
		case !j.blocked[w]:
			found = j.circuit(w, root, g) || found
		}
	}
	if found {
		j.unblock(v)
	} else {
		for _, w := range succs {
			if j.blockers[w] == nil {
				j.blockers[w] = map[int64]bool{}
			}
			j.blockers[w][v] = true
		}
	}
	j.stack = j.stack[:len(j.stack)-1]
	return found
}
