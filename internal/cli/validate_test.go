package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seedsong/internal/compiler"
	"github.com/roach88/seedsong/internal/ir"
)

const validPresets = `package presets

preset: alpha: {
	seed:          "alpha"
	steps:         16
	steps_per_bar: 4
}

preset: lullaby: {
	seed:          "lullaby"
	key:           "F"
	scale:         "minor"
	progression:   "ii-V-I-vi"
	steps:         32
	steps_per_bar: 8
}

preset: triad: notes: ["C4", "E4", "G4"]
`

func TestLoadPresets(t *testing.T) {
	dir := writePresets(t, validPresets)

	result, errs := LoadPresets(dir, LoadModeCollectAll)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Presets, 3)

	p, ok := result.FindPreset("LULLABY")
	require.True(t, ok)
	assert.Equal(t, ir.Request{
		Seed:        "lullaby",
		Key:         "F",
		Scale:       ir.ScaleMinor,
		Progression: ir.Progression{"ii", "V", "I", "vi"},
		Steps:       32,
		StepsPerBar: 8,
	}, p.Request)

	_, ok = result.FindPreset("missing")
	assert.False(t, ok)
}

func TestLoadPresetsDirectoryErrors(t *testing.T) {
	notDir := filepath.Join(t.TempDir(), "file.cue")
	require.NoError(t, os.WriteFile(notDir, []byte("package presets\n"), 0644))

	tests := []struct {
		name     string
		dir      string
		wantCode string
	}{
		{"missing", "/nonexistent/presets", ErrCodeNotFound},
		{"not a directory", notDir, ErrCodeNotFound},
		{"no cue files", t.TempDir(), ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, errs := LoadPresets(tt.dir, LoadModeFailFast)
			assert.Nil(t, result)
			require.Len(t, errs, 1)

			var loadErr *LoadError
			require.ErrorAs(t, errs[0], &loadErr)
			assert.Equal(t, tt.wantCode, loadErr.Code)
		})
	}
}

func TestLoadPresetsCollectsCompileErrors(t *testing.T) {
	dir := writePresets(t, `package presets

preset: badKey: { seed: "a", key: "H" }
preset: badScale: { seed: "b", scale: "dorian" }
preset: good: seed: "c"
`)

	result, errs := LoadPresets(dir, LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 2)
	assert.Len(t, result.Presets, 1)

	codes := make([]string, 0, len(errs))
	for _, err := range errs {
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		codes = append(codes, loadErr.Code)
		assert.True(t, loadErr.Pos.IsValid(), "compile errors carry a CUE position")
	}
	assert.ElementsMatch(t, []string{compiler.ErrPresetUnknownKey, compiler.ErrPresetUnknownScale}, codes)

	_, failFast := LoadPresets(dir, LoadModeFailFast)
	assert.Len(t, failFast, 1)
}

func TestLoadPresetsDuplicateNames(t *testing.T) {
	dir := writePresets(t, `package presets

preset: Alpha: seed: "one"
preset: alpha: seed: "two"
`)

	result, errs := LoadPresets(dir, LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, compiler.ErrPresetDuplicateName, loadErr.Code)
	assert.Len(t, result.Presets, 1)
}

func TestSplitPresetRef(t *testing.T) {
	dir, name, err := splitPresetRef("./presets:alpha")
	require.NoError(t, err)
	assert.Equal(t, "./presets", dir)
	assert.Equal(t, "alpha", name)

	for _, bad := range []string{"alpha", ":alpha", "./presets:"} {
		_, _, err := splitPresetRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"seed", compiler.ErrPresetNoSeed},
		{"notes", compiler.ErrPresetInvalidNote},
		{"key", compiler.ErrPresetUnknownKey},
		{"scale", compiler.ErrPresetUnknownScale},
		{"progression", compiler.ErrPresetUnknownDegree},
		{"steps_per_bar", compiler.ErrPresetStepsPerBar},
		{"steps", ErrCodeGeneric},
		{"cue", ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldToErrorCode(tt.field))
		})
	}
}

func TestValidateValidPresets(t *testing.T) {
	dir := writePresets(t, validPresets)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 3 preset(s) valid")
}

func TestValidateValidPresetsJSON(t *testing.T) {
	dir := writePresets(t, validPresets)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.ElementsMatch(t, []string{"alpha", "lullaby", "triad"}, resp.Data.Presets)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestValidateReportsAllErrors(t *testing.T) {
	dir := writePresets(t, `package presets

preset: silent: steps: 16
preset: typo: { seed: "x", notes: ["C4", "Q7"] }
preset: badDegree: { seed: "y", progression: "I-VII" }
preset: Silent: seed: "dup"
`)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	assert.Contains(t, out, "✗ 4 validation error(s)")
	assert.Contains(t, out, compiler.ErrPresetNoSeed)
	assert.Contains(t, out, compiler.ErrPresetInvalidNote)
	assert.Contains(t, out, compiler.ErrPresetUnknownDegree)
	assert.Contains(t, out, compiler.ErrPresetDuplicateName)
}

func TestValidateErrorsJSON(t *testing.T) {
	dir := writePresets(t, `package presets

preset: zero: { seed: "z", steps_per_bar: 0 }
`)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string           `json:"code"`
			Details ValidationResult `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E_VALIDATION", resp.Error.Code)
	assert.False(t, resp.Error.Details.Valid)
	require.Len(t, resp.Error.Details.Errors, 1)
	assert.Equal(t, compiler.ErrPresetStepsPerBar, resp.Error.Details.Errors[0].Code)
	assert.Equal(t, "zero", resp.Error.Details.Errors[0].Preset)
}

func TestValidateVerboseOutput(t *testing.T) {
	dir := writePresets(t, validPresets)

	_, errOut, err := execute(t, NewValidateCommand(&RootOptions{Format: "text", Verbose: true}), dir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Found 1 CUE file(s)")
	assert.Contains(t, errOut, "Validating preset: lullaby")
}
