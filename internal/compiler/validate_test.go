package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seedsong/internal/ir"
)

func TestValidate_ValidPreset(t *testing.T) {
	p := &Preset{
		Name: "ok",
		Request: ir.Request{
			Seed:        "ok",
			Notes:       []string{"C4", "F#3"},
			Key:         "D",
			Scale:       ir.ScaleMajor,
			Progression: ir.Progression{"I", "V"},
			Steps:       32,
			StepsPerBar: 8,
		},
	}
	assert.Empty(t, Validate(p))
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	p := &Preset{
		Name: "broken",
		Request: ir.Request{
			Notes:       []string{"C4", "", "H2"},
			Key:         "X",
			Scale:       "phrygian",
			Progression: ir.Progression{"I", "bVII"},
			StepsPerBar: 0,
		},
	}

	errs := Validate(p)
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
		assert.Equal(t, "broken", e.Preset)
	}
	assert.Equal(t, []string{
		ErrPresetEmptyNote,
		ErrPresetInvalidNote,
		ErrPresetUnknownKey,
		ErrPresetUnknownScale,
		ErrPresetUnknownDegree,
		ErrPresetStepsPerBar,
	}, codes)
}

func TestValidate_SeedOrNotesRequired(t *testing.T) {
	errs := Validate(&Preset{Name: "empty", Request: ir.Request{StepsPerBar: 8}})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrPresetNoSeed, errs[0].Code)
	assert.Equal(t, "[E101] empty.seed: seed or notes is required", errs[0].Error())
}

func TestValidationError_WithLine(t *testing.T) {
	e := ValidationError{Preset: "p", Field: "key", Message: "bad", Code: ErrPresetUnknownKey, Line: 7}
	assert.Equal(t, "[E103] line 7: p.key: bad", e.Error())
}
