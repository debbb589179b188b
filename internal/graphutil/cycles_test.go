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

package graphutil_test

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/awslabs/ar-sta-tools/internal/funcutil"
	"github.com/awslabs/ar-sta-tools/internal/graphutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourbasic/graph"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// newTestGraph returns 0->1->2->0, 2<->3 and 4->5
func newTestGraph() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for i := 0; i < 6; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, e := range [][2]int64{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 2}, {4, 5}} {
		g.SetEdge(g.NewEdge(simple.Node(e[0]), simple.Node(e[1])))
	}
	return g
}

func allIDs(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i)
	}
	return ids
}

func TestFindAllElementaryCycles(t *testing.T) {
	iterator := graphutil.NewAdjGraph(newTestGraph(), allIDs(6), nil)
	stats := graph.Check(iterator)
	t.Logf("Stats:\n\tsize: %d\n\tmulti: %d\n\tloops: %d\n\tisolated: %d",
		stats.Size, stats.Multi, stats.Loops, stats.Isolated)

	cycles := graphutil.FindAllElementaryCycles(iterator)
	results := funcutil.Map(cycles, func(cycle []int64) string {
		return strings.Join(funcutil.Map(cycle, func(x int64) string { return strconv.Itoa(int(x)) }), "")
	})
	sort.Strings(results)
	assert.Equal(t, []string{"0120", "232"}, results)
}

func TestCyclicVertices(t *testing.T) {
	g := newTestGraph()
	cyclic := graphutil.CyclicVertices(graphutil.NewAdjGraph(g, allIDs(6), nil))
	assert.Equal(t, map[int64]bool{0: true, 1: true, 2: true, 3: true}, cyclic)

	// Dropping 2->0 leaves only the 2<->3 loop
	noBack := func(e gonum.Edge) bool { return !(e.From().ID() == 2 && e.To().ID() == 0) }
	cyclic = graphutil.CyclicVertices(graphutil.NewAdjGraph(g, allIDs(6), noBack))
	assert.Equal(t, map[int64]bool{2: true, 3: true}, cyclic)

	// Restricting the nodes to {0, 1, 2} leaves the 0->1->2->0 loop
	cyclic = graphutil.CyclicVertices(graphutil.NewAdjGraph(g, []int64{2, 1, 0}, nil))
	assert.Equal(t, map[int64]bool{0: true, 1: true, 2: true}, cyclic)
}

func TestAdjGraphNodes(t *testing.T) {
	a := graphutil.NewAdjGraph(newTestGraph(), []int64{4, 5, 2}, nil)
	require.Equal(t, 6, a.Order())
	assert.Equal(t, []int64{2, 4, 5}, a.Keys)
	assert.True(t, a.HasEdgeBetween(5, 4))
	assert.Nil(t, a.Edge(2, 3))

	nodes := a.Nodes()
	var ids []int64
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	assert.Equal(t, []int64{2, 4, 5}, ids)
}

func TestReversedBreadthFirst(t *testing.T) {
	g := newTestGraph()
	var visited []int64
	bf := traverse.BreadthFirst{
		Visit: func(n gonum.Node) { visited = append(visited, n.ID()) },
	}
	bf.Walk(graphutil.Reversed{G: g}, simple.Node(3), nil)
	sort.Slice(visited, func(i, j int) bool { return visited[i] < visited[j] })
	assert.Equal(t, []int64{0, 1, 2, 3}, visited)

	e := graphutil.Reversed{G: g}.Edge(5, 4)
	require.NotNil(t, e)
	assert.Equal(t, int64(5), e.From().ID())
	assert.Nil(t, graphutil.Reversed{G: g}.Edge(4, 5))
}
