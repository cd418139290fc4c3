package compiler

import (
	"fmt"

	"github.com/roach88/seedsong/internal/theory"
)

// Validation error codes (E100-E199)
const (
	ErrPresetNoSeed          = "E101" // seed or notes required
	ErrPresetInvalidNote     = "E102" // note name does not parse
	ErrPresetUnknownKey      = "E103" // key letter not in A-G
	ErrPresetUnknownScale    = "E104" // scale not major/minor
	ErrPresetUnknownDegree   = "E105" // progression label unknown
	ErrPresetStepsPerBar     = "E106" // steps_per_bar must be positive
	ErrPresetDuplicateName   = "E107" // two presets share a name
	ErrPresetEmptyNote       = "E108" // note list has an empty entry
)

// ValidationError represents a preset validation error.
type ValidationError struct {
	Preset  string `json:"preset"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s.%s: %s", e.Code, e.Line, e.Preset, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.Preset, e.Field, e.Message)
}

// Validate checks a compiled preset and returns all errors found
// (does not fail fast).
func Validate(p *Preset) []ValidationError {
	var errs []ValidationError
	add := func(code, field, msg string) {
		errs = append(errs, ValidationError{
			Preset:  p.Name,
			Field:   field,
			Message: msg,
			Code:    code,
			Line:    p.Pos.Line(),
		})
	}

	req := p.Request
	if req.Seed == "" && len(req.Notes) == 0 {
		add(ErrPresetNoSeed, "seed", "seed or notes is required")
	}
	for i, n := range req.Notes {
		if n == "" {
			add(ErrPresetEmptyNote, "notes", fmt.Sprintf("note %d is empty", i))
			continue
		}
		if _, err := theory.ParseNote(n); err != nil {
			add(ErrPresetInvalidNote, "notes", err.Error())
		}
	}
	if req.Key != "" {
		if _, err := theory.TonicClass(req.Key); err != nil {
			add(ErrPresetUnknownKey, "key", err.Error())
		}
	}
	if req.Scale != "" {
		if _, err := theory.Steps(req.Scale); err != nil {
			add(ErrPresetUnknownScale, "scale", err.Error())
		}
	}
	if len(req.Progression) > 0 {
		if err := theory.ValidateProgression(req.Progression); err != nil {
			add(ErrPresetUnknownDegree, "progression", err.Error())
		}
	}
	if req.StepsPerBar <= 0 {
		add(ErrPresetStepsPerBar, "steps_per_bar", fmt.Sprintf("must be positive, got %d", req.StepsPerBar))
	}
	return errs
}
