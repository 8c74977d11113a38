package mangle

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v2"

	"bmpfx/filter"
)

// Step names one filter and how many times it runs in a row.
type Step struct {
	Filter string `yaml:"filter"`
	Repeat int    `yaml:"repeat,omitempty"`
}

// Recipe is an ordered list of filter steps, stored as YAML:
//
//	steps:
//	  - filter: grayscale
//	  - filter: blur
//	    repeat: 3
type Recipe struct {
	Steps []Step `yaml:"steps"`
}

// LoadRecipe reads and validates the recipe stored at path.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read recipe %q: %w", path, err)
	}
	r, err := ParseRecipe(data)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe %q: %w", path, err)
	}
	return r, nil
}

// ParseRecipe decodes a YAML recipe. Unknown keys, unknown filters and
// negative repeat counts are rejected.
func ParseRecipe(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.UnmarshalStrict(data, &r); err != nil {
		return nil, err
	}
	for i, s := range r.Steps {
		if _, err := filter.Lookup(s.Filter); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if s.Repeat < 0 {
			return nil, fmt.Errorf("step %d: negative repeat count %d", i+1, s.Repeat)
		}
	}
	return &r, nil
}

// Names expands the recipe into the flat filter sequence. A step without a
// repeat count runs once.
func (r *Recipe) Names() []string {
	return lo.FlatMap(r.Steps, func(s Step, _ int) []string {
		return lo.RepeatBy(max(s.Repeat, 1), func(int) string { return s.Filter })
	})
}
