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

package analysis

import (
	"sync"

	"github.com/awslabs/ar-sta-tools/analysis/config"
	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
)

// State is the shared state of a timing analysis session: the configuration, the logger, the timing graph, the
// clock constraints and the analysis corners. Analyses running on the state report configuration errors with
// AddError and keep going.
type State struct {
	// The logger used during the analysis (can be used to control output).
	Logger *config.LogGroup

	// The configuration file for the analysis
	Config *config.Config

	// The timing graph of the design
	Graph *timing.Graph

	// The clock constraints of the design
	Sdc *sdc.Sdc

	// The corners of the analysis, built from the corner names of the config
	Corners *sdc.Corners

	// Stored errors, in the order they were added
	errors     []error
	errorSet   map[error]bool
	errorMutex sync.Mutex
}

// NewState returns a properly initialized state with an empty graph and empty constraints. A nil config uses
// the global config (see config.SetGlobalConfig). If the global config cannot be loaded, the state uses the
// default config and stores the load error.
func NewState(c *config.Config) *State {
	var loadErr error
	if c == nil {
		c, loadErr = config.LoadGlobal()
		if loadErr != nil {
			c = config.NewDefault()
		}
	}
	s := &State{
		Logger:   config.NewLogGroup(c),
		Config:   c,
		Graph:    timing.NewGraph(),
		Sdc:      sdc.NewSdc(),
		Corners:  sdc.NewCorners(c.Corners...),
		errorSet: map[error]bool{},
	}
	if loadErr != nil {
		s.Logger.Errorf("%v", loadErr)
		s.AddError(loadErr)
	}
	return s
}

// AddError stores e. Adding the same error twice is a no-op.
func (s *State) AddError(e error) {
	s.errorMutex.Lock()
	defer s.errorMutex.Unlock()
	if e != nil && !s.errorSet[e] {
		s.errorSet[e] = true
		s.errors = append(s.errors, e)
	}
}

// CheckError returns and removes the oldest stored error, or nil
func (s *State) CheckError() error {
	s.errorMutex.Lock()
	defer s.errorMutex.Unlock()
	if len(s.errors) == 0 {
		return nil
	}
	e := s.errors[0]
	s.errors = s.errors[1:]
	delete(s.errorSet, e)
	return e
}

// Errors returns the stored errors without removing them
func (s *State) Errors() []error {
	s.errorMutex.Lock()
	defer s.errorMutex.Unlock()
	return append([]error(nil), s.errors...)
}
