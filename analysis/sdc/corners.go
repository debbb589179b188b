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

package sdc

import "fmt"

// Corner is a named process/voltage/temperature context
type Corner struct {
	name  string
	index int
	aps   [MinMaxCount]*PathAnalysisPt
}

// Name returns the name of the corner
func (c *Corner) Name() string { return c.name }

// Index returns the dense index of the corner
func (c *Corner) Index() int { return c.index }

// FindPathAnalysisPt returns the analysis point of the corner for mm
func (c *Corner) FindPathAnalysisPt(mm MinMax) *PathAnalysisPt { return c.aps[mm.Index()] }

// PathAnalysisPt is an analysis point: a corner with a min or max delay selection. Delays, arrivals and insertion
// delays are computed independently for every analysis point.
type PathAnalysisPt struct {
	index  int
	corner *Corner
	minMax MinMax
}

// Index returns the dense index of the analysis point
func (ap *PathAnalysisPt) Index() int { return ap.index }

// Corner returns the corner of the analysis point
func (ap *PathAnalysisPt) Corner() *Corner { return ap.corner }

// PathMinMax returns the min/max selection of the analysis point
func (ap *PathAnalysisPt) PathMinMax() MinMax { return ap.minMax }

// InsertionAnalysisPt returns the analysis point used to look up clock insertion delays for earlyLate.
func (ap *PathAnalysisPt) InsertionAnalysisPt(earlyLate EarlyLate) *PathAnalysisPt {
	return ap.corner.aps[earlyLate.Index()]
}

func (ap *PathAnalysisPt) String() string {
	return fmt.Sprintf("%s/%s", ap.corner.name, ap.minMax)
}

// Corners holds the corners of the analysis and their analysis points. Corner i owns analysis points 2i (min) and
// 2i+1 (max).
type Corners struct {
	corners []*Corner
	aps     []*PathAnalysisPt
}

// NewCorners creates the corners with the given names, in order
func NewCorners(names ...string) *Corners {
	cs := &Corners{}
	for i, name := range names {
		corner := &Corner{name: name, index: i}
		for _, mm := range []MinMax{Min, Max} {
			ap := &PathAnalysisPt{index: len(cs.aps), corner: corner, minMax: mm}
			corner.aps[mm.Index()] = ap
			cs.aps = append(cs.aps, ap)
		}
		cs.corners = append(cs.corners, corner)
	}
	return cs
}

// Corners returns the corners in index order
func (cs *Corners) Corners() []*Corner { return cs.corners }

// FindCorner returns the corner named name, or nil
func (cs *Corners) FindCorner(name string) *Corner {
	for _, c := range cs.corners {
		if c.name == name {
			return c
		}
	}
	return nil
}

// PathAnalysisPts returns the analysis points in index order
func (cs *Corners) PathAnalysisPts() []*PathAnalysisPt { return cs.aps }

// PathAnalysisPtCount returns the number of analysis points
func (cs *Corners) PathAnalysisPtCount() int { return len(cs.aps) }
