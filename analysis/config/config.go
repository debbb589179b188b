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

package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig. When no global config file is set, it
// returns the default config.
func LoadGlobal() (*Config, error) {
	if configFile == "" {
		return NewDefault(), nil
	}
	return Load(configFile)
}

// Config contains the options of the timing analysis and the corners it runs on.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will keep its default value.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// Corners lists the names of the analysis corners. Each corner gets a min (early) and a max (late) path analysis
	// point.
	Corners []string `yaml:"corners"`

	// SrcPathPolicy decides which path is recorded when several source paths of a generated clock reach the same
	// pin with the same transition and analysis point: SrcPathFirst or SrcPathWorst
	SrcPathPolicy string `yaml:"src-path-policy"`

	// if the TraceFilter is specified
	traceFilterRegex *regexp.Regexp
}

// Options are the general options of the analysis
type Options struct {
	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`

	// ReportMissingSrcPaths specifies whether a warning is logged when no path from the master clock reaches a pin
	// of a generated clock
	ReportMissingSrcPaths bool `yaml:"report-missing-src-paths"`

	// TraceFilter restricts the trace level output of the generated clock analysis to the clocks whose name matches
	// the filter. If empty, all clocks are traced.
	TraceFilter string `yaml:"trace-filter"`
}

// NewDefault returns a default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:    "",
		Corners:       []string{DefaultCorner},
		SrcPathPolicy: SrcPathFirst,
		Options: Options{
			LogLevel:              int(InfoLevel),
			SilenceWarn:           false,
			ReportMissingSrcPaths: true,
			TraceFilter:           "",
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadFromBytes(filename, b)
}

// LoadFromBytes reads a configuration from the contents b of the file filename
func LoadFromBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if len(cfg.Corners) == 0 {
		cfg.Corners = []string{DefaultCorner}
	}
	seen := map[string]bool{}
	for _, name := range cfg.Corners {
		if name == "" {
			return nil, fmt.Errorf("config %s: empty corner name", filename)
		}
		if seen[name] {
			return nil, fmt.Errorf("config %s: duplicate corner %q", filename, name)
		}
		seen[name] = true
	}

	switch cfg.SrcPathPolicy {
	case "":
		cfg.SrcPathPolicy = SrcPathFirst
	case SrcPathFirst, SrcPathWorst:
	default:
		return nil, fmt.Errorf("config %s: unknown src-path-policy %q (expected %q or %q)",
			filename, cfg.SrcPathPolicy, SrcPathFirst, SrcPathWorst)
	}

	if cfg.TraceFilter != "" {
		r, err := regexp.Compile(cfg.TraceFilter)
		if err == nil {
			cfg.traceFilterRegex = r
		}
	}

	return cfg, nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchTraceFilter returns true if the clock name matches the trace filter set in the config file. If no
// trace filter has been set in the config file, any name matches. This function safely considers the case where a
// filter has been specified by the user, but it could not be compiled to a regex. The safe case is to check whether
// the filter string is a prefix of the name
func (c Config) MatchTraceFilter(name string) bool {
	if c.traceFilterRegex != nil {
		return c.traceFilterRegex.MatchString(name)
	} else if c.TraceFilter != "" {
		return strings.HasPrefix(name, c.TraceFilter)
	} else {
		return true
	}
}

// KeepWorstSrcPath returns true if the worst source path is recorded instead of the first one
func (c Config) KeepWorstSrcPath() bool {
	return c.SrcPathPolicy == SrcPathWorst
}
