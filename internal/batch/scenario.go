package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poupaenergia/poupa/internal/savings"
)

// Errors returned while loading a scenario file.
var (
	ErrNoScenarios       = errors.New("scenario file contains no scenarios")
	ErrDuplicateScenario = errors.New("duplicate scenario name")
)

// Scenario is one named form submission.
type Scenario struct {
	Name     string            `yaml:"name" json:"name"`
	Strategy savings.Strategy  `yaml:"strategy" json:"strategy"`
	Fields   map[string]string `yaml:"fields" json:"fields"`
}

// Request converts the scenario to an engine request.
func (s Scenario) Request() savings.Request {
	return savings.Request{Strategy: s.Strategy, Fields: s.Fields}
}

// File is the on-disk scenario document.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadFile reads and validates a scenario file.
func LoadFile(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario file: %w", err)
	}
	defer f.Close()

	scenarios, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

// Parse decodes a scenario document. Unnamed scenarios are named after
// their position; names must be unique and strategies known.
func Parse(r io.Reader) ([]Scenario, error) {
	var doc File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoScenarios
		}
		return nil, fmt.Errorf("parsing scenarios: %w", err)
	}
	if len(doc.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	seen := make(map[string]bool, len(doc.Scenarios))
	for i := range doc.Scenarios {
		s := &doc.Scenarios[i]
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			s.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateScenario, s.Name)
		}
		seen[s.Name] = true

		if _, err := savings.ParseStrategy(string(s.Strategy)); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return doc.Scenarios, nil
}
