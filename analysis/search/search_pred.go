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

// SearchPred decides which vertices and edges a traversal goes through
type SearchPred interface {
	// SearchFrom returns true if the traversal may leave from
	SearchFrom(from *timing.Vertex) bool
	// SearchThru returns true if the traversal may go through edge
	SearchThru(edge *timing.Edge) bool
	// SearchTo returns true if the traversal may reach to
	SearchTo(to *timing.Vertex) bool
}

// SearchPred0 excludes disabled edges and timing checks
type SearchPred0 struct{}

// SearchFrom implements SearchPred
func (SearchPred0) SearchFrom(*timing.Vertex) bool { return true }

// SearchThru implements SearchPred
func (SearchPred0) SearchThru(edge *timing.Edge) bool {
	return !edge.IsDisabled() && !edge.Role().IsTimingCheck()
}

// SearchTo implements SearchPred
func (SearchPred0) SearchTo(*timing.Vertex) bool { return true }

// SearchPred1 excludes disabled edges, timing checks and register set/clear edges
type SearchPred1 struct {
	SearchPred0
}

// SearchThru implements SearchPred
func (p SearchPred1) SearchThru(edge *timing.Edge) bool {
	return p.SearchPred0.SearchThru(edge) && edge.Role() != timing.RoleRegSetClr
}

// SearchEdge returns true if pred admits the traversal of edge from its source to its target
func SearchEdge(pred SearchPred, edge *timing.Edge) bool {
	return pred.SearchFrom(edge.FromVertex()) && pred.SearchThru(edge) && pred.SearchTo(edge.ToVertex())
}
