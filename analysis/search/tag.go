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
)

// Arrival is an arrival time
type Arrival = float32

// ClkInfo describes the clock a path is launched by: the clock edge, the pin the clock is defined on and the
// insertion delay of the clock at that pin.
type ClkInfo struct {
	clkEdge      *sdc.ClockEdge
	clkSrc       *timing.Pin
	isPropagated bool
	insertion    Arrival
	pathAP       *sdc.PathAnalysisPt
}

// NewClkInfo returns the clock information of a path launched by clkEdge from clkSrc
func NewClkInfo(clkEdge *sdc.ClockEdge, clkSrc *timing.Pin, isPropagated bool, insertion Arrival,
	pathAP *sdc.PathAnalysisPt) ClkInfo {
	return ClkInfo{
		clkEdge:      clkEdge,
		clkSrc:       clkSrc,
		isPropagated: isPropagated,
		insertion:    insertion,
		pathAP:       pathAP,
	}
}

// ClkEdge returns the launching clock edge, or nil for unclocked paths
func (ci ClkInfo) ClkEdge() *sdc.ClockEdge { return ci.clkEdge }

// ClkSrc returns the pin the launching clock is defined on
func (ci ClkInfo) ClkSrc() *timing.Pin { return ci.clkSrc }

// IsPropagated returns true if the launching clock network is propagated
func (ci ClkInfo) IsPropagated() bool { return ci.isPropagated }

// Insertion returns the insertion delay of the launching clock at its source pin
func (ci ClkInfo) Insertion() Arrival { return ci.insertion }

// PathAnalysisPt returns the analysis point of the clock information
func (ci ClkInfo) PathAnalysisPt() *sdc.PathAnalysisPt { return ci.pathAP }

func (ci ClkInfo) String() string {
	if ci.clkEdge == nil {
		return "unclocked"
	}
	return fmt.Sprintf("%s from %s", ci.clkEdge, ci.clkSrc)
}

// FilterPath admits only the paths that start at an edge of the master clock of a generated clock and go through
// the thru pin. A filter belongs to exactly one generated clock.
type FilterPath struct {
	gclk      *sdc.Clock
	masterClk *sdc.Clock
	thruPin   *timing.Pin
}

// NewFilterPath returns a filter for the source paths of gclk from masterClk through thruPin
func NewFilterPath(gclk, masterClk *sdc.Clock, thruPin *timing.Pin) *FilterPath {
	return &FilterPath{gclk: gclk, masterClk: masterClk, thruPin: thruPin}
}

// Gclk returns the generated clock the filter belongs to
func (f *FilterPath) Gclk() *sdc.Clock { return f.gclk }

// MasterClk returns the clock admitted by the filter
func (f *FilterPath) MasterClk() *sdc.Clock { return f.masterClk }

// ThruPin returns the pin admitted paths go through
func (f *FilterPath) ThruPin() *timing.Pin { return f.thruPin }

// Admits returns true if a path launched by clkEdge is admitted by the filter
func (f *FilterPath) Admits(clkEdge *sdc.ClockEdge) bool {
	return clkEdge != nil && clkEdge.Clock() == f.masterClk
}

func (f *FilterPath) String() string {
	return fmt.Sprintf("%s -thru %s for %s", f.masterClk, f.thruPin, f.gclk)
}

// Tag identifies the context of an arrival: the transition, the analysis point, the launching clock and, for
// generated clock source paths, the filter the path was propagated under. Tags are interned by a TagSet: two tags
// with the same contents are the same pointer.
type Tag struct {
	index           int
	rf              sdc.RiseFall
	pathAP          *sdc.PathAnalysisPt
	clkInfo         ClkInfo
	isClock         bool
	isGenClkSrcPath bool
	filter          *FilterPath
	filterDone      bool
}

// TagSpec lists the contents of a tag
type TagSpec struct {
	Transition      sdc.RiseFall
	PathAP          *sdc.PathAnalysisPt
	ClkInfo         ClkInfo
	IsClock         bool
	IsGenClkSrcPath bool
	Filter          *FilterPath
	FilterDone      bool
}

// Index returns the dense index of the tag in its TagSet
func (t *Tag) Index() int { return t.index }

// Transition returns the transition of the tag
func (t *Tag) Transition() sdc.RiseFall { return t.rf }

// PathAnalysisPt returns the analysis point of the tag
func (t *Tag) PathAnalysisPt() *sdc.PathAnalysisPt { return t.pathAP }

// ClkInfo returns the clock information of the tag
func (t *Tag) ClkInfo() ClkInfo { return t.clkInfo }

// ClkEdge returns the launching clock edge of the tag
func (t *Tag) ClkEdge() *sdc.ClockEdge { return t.clkInfo.clkEdge }

// IsClock returns true for tags of clock network paths
func (t *Tag) IsClock() bool { return t.isClock }

// IsGenClkSrcPath returns true for tags of generated clock source paths
func (t *Tag) IsGenClkSrcPath() bool { return t.isGenClkSrcPath }

// Filter returns the source path filter of the tag, or nil
func (t *Tag) Filter() *FilterPath { return t.filter }

// FilterDone returns true once the path has gone through the thru pin of its filter
func (t *Tag) FilterDone() bool { return t.filterDone }

func (t *Tag) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s %s %s", t.index, t.rf, t.pathAP, t.clkInfo)
	if t.isClock {
		sb.WriteString(" clock")
	}
	if t.filter != nil {
		fmt.Fprintf(&sb, " filter %s", t.filter)
		if t.filterDone {
			sb.WriteString(" done")
		}
	}
	return sb.String()
}

type tagKey struct {
	rf              sdc.RiseFall
	pathAP          *sdc.PathAnalysisPt
	clkInfo         ClkInfo
	isClock         bool
	isGenClkSrcPath bool
	filter          *FilterPath
	filterDone      bool
}

// TagSet interns tags
type TagSet struct {
	tags  []*Tag
	index map[tagKey]*Tag
}

// NewTagSet returns an empty tag set
func NewTagSet() *TagSet {
	return &TagSet{index: map[tagKey]*Tag{}}
}

// FindTag returns the tag with the contents of spec, creating it if it does not exist
func (s *TagSet) FindTag(spec TagSpec) *Tag {
	key := tagKey{
		rf:              spec.Transition,
		pathAP:          spec.PathAP,
		clkInfo:         spec.ClkInfo,
		isClock:         spec.IsClock,
		isGenClkSrcPath: spec.IsGenClkSrcPath,
		filter:          spec.Filter,
		filterDone:      spec.FilterDone,
	}
	if tag, ok := s.index[key]; ok {
		return tag
	}
	tag := &Tag{
		index:           len(s.tags),
		rf:              spec.Transition,
		pathAP:          spec.PathAP,
		clkInfo:         spec.ClkInfo,
		isClock:         spec.IsClock,
		isGenClkSrcPath: spec.IsGenClkSrcPath,
		filter:          spec.Filter,
		filterDone:      spec.FilterDone,
	}
	s.tags = append(s.tags, tag)
	s.index[key] = tag
	return tag
}

// Tag returns the tag with index i, or nil
func (s *TagSet) Tag(i int) *Tag {
	if i < 0 || i >= len(s.tags) {
		return nil
	}
	return s.tags[i]
}

// Len returns the number of tags in the set
func (s *TagSet) Len() int { return len(s.tags) }

// Clear removes all the tags. Tags handed out before are no longer interned.
func (s *TagSet) Clear() {
	s.tags = nil
	s.index = map[tagKey]*Tag{}
}
