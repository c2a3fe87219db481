// SPDX-License-Identifier: MIT

// Package scenario reads solve requests from YAML files and watches them
// for edits.
//
// A scenario file is a reliability.Request plus an optional name:
//
//	name: two pumps
//	components: 2
//	lambda: [1, 1]
//	mu: [0.5, 0.5]
//	horizon: 5
//	points: 50
//	show_count: 3
//	show_labels: true
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ctmc/reliability"
)

// ErrEmpty is returned for a file with no document.
var ErrEmpty = errors.New("scenario: empty document")

// Scenario is a named solve request.
type Scenario struct {
	Name                string `yaml:"name,omitempty" json:"name,omitempty"`
	reliability.Request `yaml:",inline"`
}

// Parse decodes one scenario document. Unknown keys are rejected so a
// misspelled field does not silently fall back to a default.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}

	return &s, nil
}

// Load reads and parses path.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	s, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Save writes s to path as YAML.
func Save(path string, s *Scenario) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("scenario: encode: %w", err)
	}

	return os.WriteFile(path, b, 0o644)
}
