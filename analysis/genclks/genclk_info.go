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

package genclks

import (
	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/search"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
)

type insertionKey struct {
	pin  timing.PinID
	rf   sdc.RiseFall
	apIx int
}

// genclkInfo is the cached state of one generated clock. A nil field has not been computed yet.
type genclkInfo struct {
	gclk                *sdc.Clock
	fanins              timing.VertexSet
	latchFdbkEdges      timing.EdgeSet
	foundLatchFdbkEdges bool
	insertions          map[insertionKey]search.Arrival
}

func newGenclkInfo(gclk *sdc.Clock) *genclkInfo {
	return &genclkInfo{gclk: gclk}
}

func (info *genclkInfo) setInsertionDelay(pin *timing.Pin, rf sdc.RiseFall, ap *sdc.PathAnalysisPt,
	insertion search.Arrival) {
	if info.insertions == nil {
		info.insertions = map[insertionKey]search.Arrival{}
	}
	info.insertions[insertionKey{pin.ID(), rf, ap.Index()}] = insertion
}

func (info *genclkInfo) insertionDelay(pin *timing.Pin, rf sdc.RiseFall,
	ap *sdc.PathAnalysisPt) (search.Arrival, bool) {
	ins, ok := info.insertions[insertionKey{pin.ID(), rf, ap.Index()}]
	return ins, ok
}
