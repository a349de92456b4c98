// Package settings provides the YAML settings file: viewport bounds,
// highlight timing and the marker coloring rules, plus live reload.
package settings

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NielsIH/snapspot/internal/marker"
	"github.com/NielsIH/snapspot/pkg/colorutil"
)

// Settings is the on-disk configuration. The rule list is handed to the
// engine wholesale; the engine never edits it.
type Settings struct {
	MinScale         float64      `yaml:"min_scale"`
	MaxScale         float64      `yaml:"max_scale"`
	HighlightSeconds float64      `yaml:"highlight_seconds"`
	Crosshair        bool         `yaml:"crosshair"`
	Rules            []RuleConfig `yaml:"rules"`
}

// RuleConfig is one coloring rule as written in the settings file.
type RuleConfig struct {
	Operator string `yaml:"operator"`
	Value    string `yaml:"value,omitempty"`
	Color    string `yaml:"color"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		MinScale:         0.05,
		MaxScale:         10.0,
		HighlightSeconds: 5,
	}
}

// Load reads settings from a YAML file, filling unset numeric fields
// from the defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if s.MinScale <= 0 {
		s.MinScale = Default().MinScale
	}
	if s.MaxScale < s.MinScale {
		s.MaxScale = Default().MaxScale
	}
	if s.HighlightSeconds <= 0 {
		s.HighlightSeconds = Default().HighlightSeconds
	}
	return s, nil
}

// HighlightDuration returns the highlight window as a duration.
func (s Settings) HighlightDuration() time.Duration {
	return time.Duration(s.HighlightSeconds * float64(time.Second))
}

// ColorRules converts the configured rules into engine rules. A rule
// with an unknown operator or an unparseable color fails the whole
// conversion; the caller keeps the previous rule set in that case.
func (s Settings) ColorRules() ([]marker.Rule, error) {
	rules := make([]marker.Rule, 0, len(s.Rules))
	for i, rc := range s.Rules {
		op := marker.Operator(rc.Operator)
		switch op {
		case marker.OpIsEmpty, marker.OpIsNotEmpty, marker.OpContains:
		default:
			return nil, fmt.Errorf("rule %d: unknown operator %q", i, rc.Operator)
		}
		c, err := colorutil.Parse(rc.Color)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, marker.Rule{Operator: op, Value: rc.Value, Color: c})
	}
	return rules, nil
}
