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
	"fmt"
	"strings"

	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
	"github.com/awslabs/ar-sta-tools/internal/funcutil"
)

// Path is an arrival at a vertex under a tag, linked to the path it was propagated from. Paths are immutable once
// created.
type Path struct {
	vertex   *timing.Vertex
	tag      *Tag
	arrival  Arrival
	prevPath *Path
	prevEdge *timing.Edge
	prevArc  *timing.TimingArc
}

// NewPath returns a path at vertex. prevPath, prevEdge and prevArc are nil for the root of a path.
func NewPath(vertex *timing.Vertex, tag *Tag, arrival Arrival, prevPath *Path, prevEdge *timing.Edge,
	prevArc *timing.TimingArc) *Path {
	return &Path{
		vertex:   vertex,
		tag:      tag,
		arrival:  arrival,
		prevPath: prevPath,
		prevEdge: prevEdge,
		prevArc:  prevArc,
	}
}

// Vertex returns the vertex of the path
func (p *Path) Vertex() *timing.Vertex { return p.vertex }

// Pin returns the pin of the vertex of the path
func (p *Path) Pin() *timing.Pin { return p.vertex.Pin() }

// Tag returns the tag of the path
func (p *Path) Tag() *Tag { return p.tag }

// Arrival returns the arrival time at the vertex
func (p *Path) Arrival() Arrival { return p.arrival }

// PrevPath returns the path this path was propagated from, or nil at the root
func (p *Path) PrevPath() *Path { return p.prevPath }

// PrevEdge returns the edge this path was propagated through, or nil at the root
func (p *Path) PrevEdge() *timing.Edge { return p.prevEdge }

// PrevArc returns the timing arc this path was propagated through, or nil at the root
func (p *Path) PrevArc() *timing.TimingArc { return p.prevArc }

// Transition returns the transition of the path
func (p *Path) Transition() sdc.RiseFall { return p.tag.rf }

// PathAnalysisPt returns the analysis point of the path
func (p *Path) PathAnalysisPt() *sdc.PathAnalysisPt { return p.tag.pathAP }

// MinMax returns the min/max selection of the analysis point of the path
func (p *Path) MinMax() sdc.MinMax { return p.tag.pathAP.PathMinMax() }

// ClkInfo returns the clock information of the path
func (p *Path) ClkInfo() ClkInfo { return p.tag.clkInfo }

// ClkEdge returns the launching clock edge of the path, or nil
func (p *Path) ClkEdge() *sdc.ClockEdge { return p.tag.clkInfo.clkEdge }

// IsClock returns true for clock network paths
func (p *Path) IsClock() bool { return p.tag.isClock }

// Inverting returns true if the transition of the path is opposite to the transition of its launching clock edge
func (p *Path) Inverting() bool {
	edge := p.ClkEdge()
	return edge != nil && edge.Transition() != p.Transition()
}

func (p *Path) String() string {
	return fmt.Sprintf("%s %s %s %.4g", p.vertex, p.tag.rf, p.tag.pathAP, p.arrival)
}

// PathExpanded returns the paths from the root of p to p, root first
func PathExpanded(p *Path) []*Path {
	var expanded []*Path
	for cur := p; cur != nil; cur = cur.prevPath {
		expanded = append(expanded, cur)
	}
	funcutil.Reverse(expanded)
	return expanded
}

// PathString returns the pin names along p, root first
func PathString(p *Path) string {
	return strings.Join(funcutil.Map(PathExpanded(p), func(x *Path) string { return x.vertex.String() }), " -> ")
}
