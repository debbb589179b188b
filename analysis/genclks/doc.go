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

/*
Package genclks computes the timing of generated clocks.

A generated clock is defined on the output pins of some generating logic (e.g. a divider flip-flop) and derives its
waveform from a master clock entering the logic at the clock's source pin. For every generated clock, a [Genclks]
computes lazily:

  - the fanin of the clock pins: every vertex of the timing graph that can affect the clock, found by a backward
    breadth first search,
  - the latch feedback edges of the fanin: edges closing a loop through a latch clocked from inside the fanin,
    which the forward search must not follow,
  - the source paths: for every clock pin, transition and analysis point, one path from an edge of the master clock
    to the pin through the source pin, found by a level ordered forward search from the master clock pins,
  - the insertion delays: the arrival of each source path minus the ideal time of its master clock edge.

Results are cached until [Genclks.Clear], which is called automatically whenever the timing graph or the clock
constraints of the analysis state change.

Generated clocks with a configuration error (no master clock, several candidate master clocks, or a master cycle)
are reported on the analysis state and get no source paths; the other generated clocks are analyzed normally.

A Genclks is not safe for concurrent use.
*/
package genclks
