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

// Package analysistest loads test circuits described in yaml files. A test directory contains a circuit.yaml
// with the pins, timing edges, clocks and expected results of the test, and optionally a config.yaml.
package analysistest

import (
	"io/fs"
	"path"
	"testing"

	"github.com/awslabs/ar-sta-tools/analysis"
	"github.com/awslabs/ar-sta-tools/analysis/config"
	"github.com/awslabs/ar-sta-tools/analysis/sdc"
	"github.com/awslabs/ar-sta-tools/analysis/timing"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Circuit is a loaded test circuit
type Circuit struct {
	State  *analysis.State
	Expect Expectations
}

// Expectations are the expected results of a test circuit. Clocks, pins and vertices are referred to by name;
// edges are written "from -> to".
type Expectations struct {
	// Fanins maps generated clock names to the names of the vertices of their fanin
	Fanins map[string][]string `yaml:"fanins"`
	// LatchFdbkEdges maps generated clock names to their latch feedback edges
	LatchFdbkEdges map[string][]string `yaml:"latch-fdbk-edges"`
	// Masters maps generated clock names to the name of their master clock
	Masters map[string]string `yaml:"masters"`
	// Insertions lists expected insertion delays
	Insertions []InsertionExpectation `yaml:"insertions"`
	// SrcPaths lists expected source paths
	SrcPaths []SrcPathExpectation `yaml:"src-paths"`
	// Errors lists the generated clocks with a configuration error
	Errors []string `yaml:"errors"`
}

// InsertionExpectation is the expected insertion delay of a generated clock at one of its pins
type InsertionExpectation struct {
	Clock      string  `yaml:"clock"`
	Pin        string  `yaml:"pin"`
	Transition string  `yaml:"rf"`
	EarlyLate  string  `yaml:"early-late"`
	Corner     string  `yaml:"corner"`
	MinMax     string  `yaml:"min-max"`
	Value      float32 `yaml:"value"`
}

// SrcPathExpectation is the expected source path of a generated clock at one of its pins. An empty Vertices means
// no path is expected.
type SrcPathExpectation struct {
	Clock      string   `yaml:"clock"`
	Pin        string   `yaml:"pin"`
	Transition string   `yaml:"rf"`
	Corner     string   `yaml:"corner"`
	MinMax     string   `yaml:"min-max"`
	Vertices   []string `yaml:"vertices"`
	Arrival    float32  `yaml:"arrival"`
}

type circuitSpec struct {
	Pins            []pinSpec      `yaml:"pins"`
	Edges           []edgeSpec     `yaml:"edges"`
	Clocks          []clockSpec    `yaml:"clocks"`
	GeneratedClocks []genClockSpec `yaml:"generated-clocks"`
	Latencies       []latencySpec  `yaml:"latencies"`
	Expect          Expectations   `yaml:"expect"`
}

type pinSpec struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
}

type edgeSpec struct {
	From     string    `yaml:"from"`
	To       string    `yaml:"to"`
	Role     string    `yaml:"role"`
	Sense    string    `yaml:"sense"`
	Delay    []float32 `yaml:"delay"`
	Disabled bool      `yaml:"disabled"`
	// ToDriver makes the edge end at the driver vertex of a bidirectional target pin
	ToDriver bool `yaml:"to-driver"`
}

type clockSpec struct {
	Name       string    `yaml:"name"`
	Pins       []string  `yaml:"pins"`
	Period     float32   `yaml:"period"`
	Waveform   []float32 `yaml:"waveform"`
	Propagated bool      `yaml:"propagated"`
}

type genClockSpec struct {
	Name          string   `yaml:"name"`
	Pins          []string `yaml:"pins"`
	Source        string   `yaml:"source"`
	Master        string   `yaml:"master"`
	DivideBy      int      `yaml:"divide-by"`
	MultiplyBy    int      `yaml:"multiply-by"`
	DutyCycle     float32  `yaml:"duty-cycle"`
	Invert        bool     `yaml:"invert"`
	Combinational bool     `yaml:"combinational"`
	Edges         []int    `yaml:"edges"`
	Propagated    bool     `yaml:"propagated"`
}

type latencySpec struct {
	Clock     string  `yaml:"clock"`
	RiseFall  string  `yaml:"rf"`
	EarlyLate string  `yaml:"early-late"`
	Value     float32 `yaml:"value"`
}

// LoadTest loads the circuit in the directory dir of fsys, failing the test on errors
func LoadTest(t *testing.T, fsys fs.FS, dir string) *Circuit {
	t.Helper()
	c, err := LoadCircuit(fsys, dir)
	if err != nil {
		t.Fatalf("failed to load test circuit %s: %v", dir, err)
	}
	return c
}

// LoadCircuit loads dir/circuit.yaml from fsys into a new analysis state. If dir/config.yaml exists, the state
// uses that config, otherwise the default config.
func LoadCircuit(fsys fs.FS, dir string) (*Circuit, error) {
	cfg := config.NewDefault()
	configFile := path.Join(dir, "config.yaml")
	if b, err := fs.ReadFile(fsys, configFile); err == nil {
		cfg, err = config.LoadFromBytes(configFile, b)
		if err != nil {
			return nil, err
		}
	}
	circuitFile := path.Join(dir, "circuit.yaml")
	b, err := fs.ReadFile(fsys, circuitFile)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", circuitFile)
	}
	state := analysis.NewState(cfg)
	expect, err := BuildCircuit(state, b)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", circuitFile)
	}
	return &Circuit{State: state, Expect: expect}, nil
}

// BuildCircuit adds the circuit described by the yaml contents b to the graph and constraints of state, and returns
// the expectations of the circuit
func BuildCircuit(state *analysis.State, b []byte) (Expectations, error) {
	var spec circuitSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return Expectations{}, errors.Wrap(err, "invalid circuit")
	}
	g := state.Graph
	for _, p := range spec.Pins {
		dir := timing.DirInternal
		if p.Dir != "" {
			var ok bool
			if dir, ok = timing.ParsePinDirection(p.Dir); !ok {
				return Expectations{}, errors.Errorf("pin %s: unknown direction %q", p.Name, p.Dir)
			}
		}
		if _, err := g.MakePin(p.Name, dir); err != nil {
			return Expectations{}, err
		}
	}
	for _, e := range spec.Edges {
		if err := buildEdge(g, e); err != nil {
			return Expectations{}, err
		}
	}
	for _, c := range spec.Clocks {
		if err := buildClock(state, c); err != nil {
			return Expectations{}, err
		}
	}
	for _, c := range spec.GeneratedClocks {
		if err := buildGeneratedClock(state, c); err != nil {
			return Expectations{}, err
		}
	}
	for _, l := range spec.Latencies {
		if err := buildLatency(state.Sdc, l); err != nil {
			return Expectations{}, err
		}
	}
	return spec.Expect, nil
}

func findPin(g *timing.Graph, name string) (*timing.Pin, error) {
	pin := g.FindPin(name)
	if pin == nil {
		return nil, errors.Errorf("unknown pin %q", name)
	}
	return pin, nil
}

func findPins(g *timing.Graph, names []string) ([]*timing.Pin, error) {
	pins := make([]*timing.Pin, 0, len(names))
	for _, name := range names {
		pin, err := findPin(g, name)
		if err != nil {
			return nil, err
		}
		pins = append(pins, pin)
	}
	return pins, nil
}

func buildEdge(g *timing.Graph, e edgeSpec) error {
	from, err := findPin(g, e.From)
	if err != nil {
		return errors.Wrap(err, "edge source")
	}
	to, err := findPin(g, e.To)
	if err != nil {
		return errors.Wrap(err, "edge target")
	}
	role := timing.RoleCombinational
	if e.Role != "" {
		var ok bool
		if role, ok = timing.ParseTimingRole(e.Role); !ok {
			return errors.Errorf("edge %s -> %s: unknown role %q", e.From, e.To, e.Role)
		}
	}
	var arcs []*timing.TimingArc
	switch e.Sense {
	case "", "positive":
		arcs = timing.UnateArcs(e.Delay...)
	case "negative":
		arcs = timing.InvertingArcs(e.Delay...)
	case "non-unate":
		arcs = timing.NonUnateArcs(e.Delay...)
	case "rising":
		arcs = timing.RisingEdgeArcs(e.Delay...)
	default:
		return errors.Errorf("edge %s -> %s: unknown sense %q", e.From, e.To, e.Sense)
	}
	target := g.PinLoadVertex(to)
	if e.ToDriver {
		target = g.PinDrvrVertex(to)
	}
	edge, err := g.MakeEdge(g.PinDrvrVertex(from), target, role, arcs)
	if err != nil {
		return err
	}
	if e.Disabled {
		g.SetDisabled(edge, true)
	}
	return nil
}

func buildClock(state *analysis.State, c clockSpec) error {
	pins, err := findPins(state.Graph, c.Pins)
	if err != nil {
		return errors.Wrapf(err, "clock %s", c.Name)
	}
	var waveform [sdc.RiseFallCount]float32
	switch len(c.Waveform) {
	case 0:
		waveform = [sdc.RiseFallCount]float32{0, c.Period / 2}
	case 2:
		copy(waveform[:], c.Waveform)
	default:
		return errors.Errorf("clock %s: waveform needs a rise and a fall time", c.Name)
	}
	clk, err := state.Sdc.MakeClock(c.Name, pins, c.Period, waveform)
	if err != nil {
		return err
	}
	if c.Propagated {
		state.Sdc.SetPropagated(clk, true)
	}
	return nil
}

func buildGeneratedClock(state *analysis.State, c genClockSpec) error {
	pins, err := findPins(state.Graph, c.Pins)
	if err != nil {
		return errors.Wrapf(err, "generated clock %s", c.Name)
	}
	src, err := findPin(state.Graph, c.Source)
	if err != nil {
		return errors.Wrapf(err, "generated clock %s source", c.Name)
	}
	var master *sdc.Clock
	if c.Master != "" {
		if master = state.Sdc.FindClock(c.Master); master == nil {
			return errors.Errorf("generated clock %s: unknown master clock %q", c.Name, c.Master)
		}
	}
	_, err = state.Sdc.MakeGeneratedClock(sdc.GeneratedClockDef{
		Name:          c.Name,
		Pins:          pins,
		SrcPin:        src,
		MasterClk:     master,
		DivideBy:      c.DivideBy,
		MultiplyBy:    c.MultiplyBy,
		DutyCycle:     c.DutyCycle,
		Invert:        c.Invert,
		Combinational: c.Combinational,
		Edges:         c.Edges,
		Propagated:    c.Propagated,
	})
	return err
}

func buildLatency(s *sdc.Sdc, l latencySpec) error {
	clk := s.FindClock(l.Clock)
	if clk == nil {
		return errors.Errorf("latency: unknown clock %q", l.Clock)
	}
	rfs, err := ParseRiseFalls(l.RiseFall)
	if err != nil {
		return errors.Wrapf(err, "latency of %s", l.Clock)
	}
	els, err := ParseEarlyLates(l.EarlyLate)
	if err != nil {
		return errors.Wrapf(err, "latency of %s", l.Clock)
	}
	for _, rf := range rfs {
		for _, el := range els {
			s.SetClockLatency(clk, rf, el, l.Value)
		}
	}
	return nil
}

// ParseRiseFalls parses "rise", "fall", or "" / "both" for both transitions
func ParseRiseFalls(s string) ([]sdc.RiseFall, error) {
	if s == "" || s == "both" {
		return sdc.RiseFalls(), nil
	}
	rf, ok := sdc.ParseRiseFall(s)
	if !ok {
		return nil, errors.Errorf("unknown transition %q", s)
	}
	return []sdc.RiseFall{rf}, nil
}

// ParseEarlyLates parses "early", "late", or "" / "both" for both
func ParseEarlyLates(s string) ([]sdc.EarlyLate, error) {
	switch s {
	case "", "both":
		return []sdc.EarlyLate{sdc.Early, sdc.Late}, nil
	case "early", "min":
		return []sdc.EarlyLate{sdc.Early}, nil
	case "late", "max":
		return []sdc.EarlyLate{sdc.Late}, nil
	}
	return nil, errors.Errorf("unknown early/late %q", s)
}

// FindPathAnalysisPt returns the analysis point of the named corner (the first corner if empty) for minMax
// ("max" if empty)
func FindPathAnalysisPt(state *analysis.State, corner, minMax string) (*sdc.PathAnalysisPt, error) {
	var c *sdc.Corner
	if corner == "" {
		c = state.Corners.Corners()[0]
	} else if c = state.Corners.FindCorner(corner); c == nil {
		return nil, errors.Errorf("unknown corner %q", corner)
	}
	els, err := ParseEarlyLates(minMax)
	if err != nil {
		return nil, err
	}
	if minMax == "" {
		return c.FindPathAnalysisPt(sdc.Max), nil
	}
	return c.FindPathAnalysisPt(els[0]), nil
}
