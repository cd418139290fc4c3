package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/theory"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Request is the composition request to run.
	Request RequestSpec `yaml:"request"`

	// Expect lists facts about the resulting composition.
	Expect ExpectClause `yaml:"expect"`

	// Properties selects structural checks. Empty means all of them.
	// Supported: lengths, range, rests, cadence, voice_leading
	Properties []string `yaml:"properties,omitempty"`

	// Golden compares the canonical composition to a golden file.
	Golden bool `yaml:"golden,omitempty"`

	// RunID is the archive run ID. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// RequestSpec is the YAML form of a composition request.
// Omitted step fields fall back to the engine defaults.
type RequestSpec struct {
	Seed        string   `yaml:"seed"`
	Notes       []string `yaml:"notes,omitempty"`
	Key         string   `yaml:"key,omitempty"`
	Scale       string   `yaml:"scale,omitempty"`
	Progression string   `yaml:"progression,omitempty"`
	Steps       *int     `yaml:"steps,omitempty"`
	StepsPerBar *int     `yaml:"steps_per_bar,omitempty"`
}

// ExpectClause specifies expected composition facts. Zero values are not
// checked.
type ExpectClause struct {
	Key         string   `yaml:"key,omitempty"`
	Scale       string   `yaml:"scale,omitempty"`
	Progression string   `yaml:"progression,omitempty"`
	Steps       int      `yaml:"steps,omitempty"`
	Bars        int      `yaml:"bars,omitempty"`
	Style       string   `yaml:"style,omitempty"`
	Degrees     []string `yaml:"degrees,omitempty"`

	// Melody and Harmony use null for rests.
	Melody  []*int `yaml:"melody,omitempty"`
	Harmony []*int `yaml:"harmony,omitempty"`

	// Chords are the voiced pitches of each bar.
	Chords [][]int `yaml:"chords,omitempty"`

	// Error, when set, expects Compose to fail with this error code.
	Error string `yaml:"error,omitempty"`
}

// Property names.
const (
	PropLengths      = "lengths"
	PropRange        = "range"
	PropRests        = "rests"
	PropCadence      = "cadence"
	PropVoiceLeading = "voice_leading"
)

// AllProperties lists every structural check in evaluation order.
var AllProperties = []string{PropLengths, PropRange, PropRests, PropCadence, PropVoiceLeading}

// ToRequest converts the YAML request into an engine request.
// Key, scale and progression are parsed; malformed values are reported
// here rather than by the engine.
func (r RequestSpec) ToRequest() (ir.Request, error) {
	req := ir.Request{
		Seed:        r.Seed,
		Notes:       r.Notes,
		Steps:       ir.DefaultSteps,
		StepsPerBar: ir.DefaultStepsPerBar,
	}
	if r.Steps != nil {
		req.Steps = *r.Steps
	}
	if r.StepsPerBar != nil {
		req.StepsPerBar = *r.StepsPerBar
	}

	var err error
	if r.Key != "" {
		if req.Key, err = theory.ParseTonic(r.Key); err != nil {
			return ir.Request{}, err
		}
	}
	if r.Scale != "" {
		if req.Scale, err = theory.ParseScale(r.Scale); err != nil {
			return ir.Request{}, err
		}
	}
	if r.Progression != "" {
		if req.Progression, err = theory.ParseProgression(r.Progression); err != nil {
			return ir.Request{}, err
		}
	}
	return req, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml/.yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		s, err := LoadScenario(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Request.Seed == "" && len(s.Request.Notes) == 0 {
		return fmt.Errorf("request.seed or request.notes is required")
	}

	for i, p := range s.Properties {
		if !slices.Contains(AllProperties, p) {
			return fmt.Errorf("properties[%d]: unknown property %q", i, p)
		}
	}

	if _, err := s.Request.ToRequest(); err != nil {
		return fmt.Errorf("request: %w", err)
	}

	return nil
}
