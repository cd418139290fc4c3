package compiler

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/melody"
	"github.com/roach88/seedsong/internal/theory"
)

// Preset is a named, compiled composition request.
type Preset struct {
	Name    string
	Request ir.Request
	Pos     token.Pos
}

// presetFields are the labels a preset may declare.
var presetFields = []string{"seed", "notes", "key", "scale", "progression", "steps", "steps_per_bar"}

// CompilePreset parses a CUE value into a Preset.
//
// The CUE value should be the preset struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`preset: alpha: { seed: "alpha" }`)
//	p, err := CompilePreset(v.LookupPath(cue.ParsePath("preset.alpha")))
func CompilePreset(v cue.Value) (*Preset, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	p := &Preset{Pos: v.Pos()}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		p.Name = labels[len(labels)-1].String()
	}

	if err := checkFields(v); err != nil {
		return nil, err
	}

	req := ir.Request{
		Steps:       ir.DefaultSteps,
		StepsPerBar: ir.DefaultStepsPerBar,
	}

	var err error
	if req.Seed, err = optionalString(v, "seed"); err != nil {
		return nil, err
	}
	if req.Notes, err = parseNotes(v); err != nil {
		return nil, err
	}

	if s, err := optionalString(v, "key"); err != nil {
		return nil, err
	} else if s != "" {
		if req.Key, err = theory.ParseTonic(s); err != nil {
			return nil, fieldError(v, "key", err.Error())
		}
	}

	if s, err := optionalString(v, "scale"); err != nil {
		return nil, err
	} else if s != "" {
		if req.Scale, err = theory.ParseScale(s); err != nil {
			return nil, fieldError(v, "scale", err.Error())
		}
	}

	if req.Progression, err = parseProgression(v); err != nil {
		return nil, err
	}

	if stepsVal := v.LookupPath(cue.ParsePath("steps")); stepsVal.Exists() {
		if req.Steps, err = parseSteps(stepsVal); err != nil {
			return nil, err
		}
	}

	if spbVal := v.LookupPath(cue.ParsePath("steps_per_bar")); spbVal.Exists() {
		n, err := spbVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if n <= 0 {
			return nil, &CompileError{
				Field:   "steps_per_bar",
				Message: fmt.Sprintf("must be positive, got %d", n),
				Pos:     spbVal.Pos(),
			}
		}
		req.StepsPerBar = int(n)
	}

	p.Request = req
	return p, nil
}

// checkFields rejects labels that are not preset fields.
func checkFields(v cue.Value) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !slices.Contains(presetFields, label) {
			return &CompileError{
				Field:   label,
				Message: "unknown preset field",
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// optionalString returns the string at field, or "" if it is absent.
func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// parseNotes accepts a list of note names or one comma-separated string.
func parseNotes(v cue.Value) ([]string, error) {
	nv := v.LookupPath(cue.ParsePath("notes"))
	if !nv.Exists() {
		return nil, nil
	}
	if s, err := nv.String(); err == nil {
		return theory.SplitNotes(s), nil
	}

	iter, err := nv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var notes []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		notes = append(notes, s)
	}
	return notes, nil
}

// parseProgression accepts "I-V-vi-IV" or ["I", "V", "vi", "IV"].
func parseProgression(v cue.Value) (ir.Progression, error) {
	pv := v.LookupPath(cue.ParsePath("progression"))
	if !pv.Exists() {
		return nil, nil
	}

	if s, err := pv.String(); err == nil {
		prog, err := theory.ParseProgression(s)
		if err != nil {
			return nil, &CompileError{Field: "progression", Message: err.Error(), Pos: pv.Pos()}
		}
		return prog, nil
	}

	iter, err := pv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var prog ir.Progression
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		d, err := theory.ParseDegree(s)
		if err != nil {
			return nil, &CompileError{Field: "progression", Message: err.Error(), Pos: iter.Value().Pos()}
		}
		prog = append(prog, d)
	}
	if len(prog) == 0 {
		return nil, &CompileError{Field: "progression", Message: "progression must not be empty", Pos: pv.Pos()}
	}
	return prog, nil
}

// parseSteps accepts integers and integral floats, clamping to the melody
// bounds. Fractional values are rejected.
func parseSteps(v cue.Value) (int, error) {
	switch v.IncompleteKind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return 0, formatCUEError(err)
		}
		n = max(melody.MinSteps, min(melody.MaxSteps, n))
		return int(n), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return 0, formatCUEError(err)
		}
		n, err := melody.StepsFromHint(f)
		if err != nil {
			return 0, &CompileError{Field: "steps", Message: err.Error(), Pos: v.Pos()}
		}
		return n, nil
	default:
		return 0, &CompileError{
			Field:   "steps",
			Message: fmt.Sprintf("expected a number, got %s", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func fieldError(v cue.Value, field, msg string) *CompileError {
	pos := v.LookupPath(cue.ParsePath(field)).Pos()
	return &CompileError{Field: field, Message: msg, Pos: pos}
}

// CompileError is a preset compilation failure with its CUE position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
