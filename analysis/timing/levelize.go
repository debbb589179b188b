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

import "github.com/awslabs/ar-sta-tools/internal/graphutil"

func (g *Graph) ensureLevelized() {
	if !g.levelsValid {
		g.levelize()
	}
}

// levelize assigns levels on the condensation of the graph. Timing checks are ignored. All the vertices of a
// strongly connected component share the same level, so that levels never decrease along a propagating edge
// even when latches close loops.
func (g *Graph) levelize() {
	sccs := graphutil.StronglyConnectedComponents(g.vertices, levelSuccessors)
	component := make(map[VertexID]int, len(g.vertices))
	for i, scc := range sccs {
		for _, v := range scc {
			component[v.id] = i
		}
	}
	g.maxLevel = 0
	// sccs are ordered successors first
	for i := len(sccs) - 1; i >= 0; i-- {
		level := 0
		for _, v := range sccs[i] {
			for _, e := range v.in {
				if e.role.IsTimingCheck() || component[e.from.id] == i {
					continue
				}
				if e.from.level+1 > level {
					level = e.from.level + 1
				}
			}
		}
		for _, v := range sccs[i] {
			v.level = level
		}
		if level > g.maxLevel {
			g.maxLevel = level
		}
	}
	g.levelsValid = true
}

func levelSuccessors(v *Vertex) []*Vertex {
	succs := make([]*Vertex, 0, len(v.out))
	for _, e := range v.out {
		if !e.role.IsTimingCheck() {
			succs = append(succs, e.to)
		}
	}
	return succs
}
