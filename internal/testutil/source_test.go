package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seedsong/internal/rng"
)

var _ rng.Source = (*ScriptedSource)(nil)
var _ rng.Source = ConstantSource(0)

func TestScriptedSource_ReturnsValuesInOrder(t *testing.T) {
	src := NewScriptedSource(0.1, 0.5, 0.9)

	assert.Equal(t, 0.1, src.Float64())
	assert.Equal(t, 0.5, src.Float64())
	assert.Equal(t, 2, src.Draws())
	assert.Equal(t, 1, src.Remaining())
	assert.Equal(t, 0.9, src.Float64())
	assert.Equal(t, 0, src.Remaining())
}

func TestScriptedSource_PanicsWhenExhausted(t *testing.T) {
	src := NewScriptedSource(0.3)
	src.Float64()

	require.Panics(t, func() { src.Float64() })
}

func TestConstantSource(t *testing.T) {
	src := ConstantSource(0.25)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 0.25, src.Float64())
	}
}
