package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvalancheJSON(t *testing.T) {
	out, _, err := execute(t, NewAvalancheCommand(&RootOptions{Format: "json"}),
		"--seed", "alpha", "--steps", "16", "--steps-per-bar", "4", "--threshold", "0")
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   AvalancheResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "alpha", resp.Data.Seed)
	assert.Equal(t, 5, resp.Data.Mutations)
	assert.True(t, resp.Data.Pass)
	assert.InDelta(t, float64(resp.Data.Changed)/5, resp.Data.Fraction, 1e-9)
	assert.GreaterOrEqual(t, resp.Data.MeanMelodyDistance, 0.0)
	assert.LessOrEqual(t, resp.Data.MeanMelodyDistance, 1.0)
}

func TestAvalancheBelowThresholdFails(t *testing.T) {
	out, _, err := execute(t, NewAvalancheCommand(&RootOptions{Format: "text"}),
		"--seed", "alpha", "--steps", "16", "--steps-per-bar", "4", "--threshold", "1.01")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "mutations changed the piece")
}

func TestAvalancheRequiresSeed(t *testing.T) {
	_, _, err := execute(t, NewAvalancheCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestAvalancheEmptySeed(t *testing.T) {
	out, _, err := execute(t, NewAvalancheCommand(&RootOptions{Format: "text"}), "--seed", "")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E008]")
}

func TestAvalancheInvalidParameter(t *testing.T) {
	out, _, err := execute(t, NewAvalancheCommand(&RootOptions{Format: "text"}),
		"--seed", "alpha", "--steps-per-bar", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [INVALID_PARAMETER]")
}
