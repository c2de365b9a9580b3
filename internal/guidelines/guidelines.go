// Package guidelines exposes the nutrition reference values the scoring rules are derived from.
package guidelines

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed guidelines.yaml
var defaultYAML []byte

// Kind tells whether a guideline value is an upper or a lower bound
type Kind string

const (
	KindMax Kind = "max"
	KindMin Kind = "min"
)

// Guideline is one nutrient reference value, per 100 g
type Guideline struct {
	Nutrient string  `yaml:"nutrient" json:"nutrient"`
	Label    string  `yaml:"label" json:"label"`
	Kind     Kind    `yaml:"kind" json:"kind"`
	Value    float64 `yaml:"value" json:"value"`
	Unit     string  `yaml:"unit" json:"unit"`
	Source   string  `yaml:"source" json:"source"`
	Note     string  `yaml:"note,omitempty" json:"note,omitempty"`
}

// Set is a versioned collection of guidelines
type Set struct {
	Version    string      `yaml:"version" json:"version"`
	UnitBasis  string      `yaml:"unit_basis" json:"unit_basis"`
	Guidelines []Guideline `yaml:"guidelines" json:"guidelines"`
}

// Lookup returns the guideline for a canonical nutrient name
func (s *Set) Lookup(nutrient string) (Guideline, bool) {
	for _, g := range s.Guidelines {
		if g.Nutrient == nutrient {
			return g, true
		}
	}
	return Guideline{}, false
}

// Exceeds reports whether value is outside the guideline: above a max or below a min
func (g Guideline) Exceeds(value float64) bool {
	if g.Kind == KindMin {
		return value < g.Value
	}
	return value > g.Value
}

// Parse decodes and validates a guideline set
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse guidelines: %w", err)
	}
	if set.Version == "" {
		return nil, fmt.Errorf("parse guidelines: missing version")
	}
	seen := make(map[string]bool, len(set.Guidelines))
	for i, g := range set.Guidelines {
		if g.Nutrient == "" {
			return nil, fmt.Errorf("parse guidelines: entry %d has no nutrient", i)
		}
		if seen[g.Nutrient] {
			return nil, fmt.Errorf("parse guidelines: duplicate nutrient %q", g.Nutrient)
		}
		seen[g.Nutrient] = true
		if g.Kind != KindMax && g.Kind != KindMin {
			return nil, fmt.Errorf("parse guidelines: %s: invalid kind %q", g.Nutrient, g.Kind)
		}
		if g.Value < 0 {
			return nil, fmt.Errorf("parse guidelines: %s: negative value", g.Nutrient)
		}
	}
	return &set, nil
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the embedded guideline set, parsed once. It panics if the embedded file is invalid.
func Default() *Set {
	defaultOnce.Do(func() {
		set, err := Parse(defaultYAML)
		if err != nil {
			panic(err)
		}
		defaultSet = set
	})
	return defaultSet
}
