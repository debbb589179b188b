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

// StronglyConnectedComponents returns the strongly connected components of the graph over nodes whose edges are
// given by successors, with Tarjan's algorithm. Components are ordered successors first: when a component reaches
// another, the reached component comes earlier in the result. The order inside a component is unspecified.
func StronglyConnectedComponents[T comparable](nodes []T, successors func(T) []T) [][]T {
	t := &tarjan[T]{
		successors: successors,
		index:      make(map[T]int, len(nodes)),
		lowlink:    make(map[T]int, len(nodes)),
		onStack:    make(map[T]bool),
	}
	for _, v := range nodes {
		if _, seen := t.index[v]; !seen {
			t.strongConnect(v)
		}
	}
	return t.sccs
}

type tarjan[T comparable] struct {
	successors func(T) []T
	index      map[T]int
	lowlink    map[T]int
	onStack    map[T]bool
	stack      []T
	sccs       [][]T
}

func (t *tarjan[T]) strongConnect(v T) {
	n := len(t.index)
	t.index[v] = n
	t.lowlink[v] = n
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.successors(v) {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}
	var scc []T
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
