package harmonize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/testutil"
)

var (
	cMajor = ir.Key{Tonic: "C", Scale: ir.ScaleMajor}
	tonic  = ir.Triad{Degree: ir.DegreeI, PitchClasses: [3]int{0, 4, 7}, Pitches: [3]ir.Pitch{48, 52, 55}}
)

func TestIsStrong(t *testing.T) {
	tests := []struct {
		step, spb int
		want      bool
	}{
		{0, 4, true},
		{2, 4, true},
		{1, 4, false},
		{3, 4, false},
		{4, 8, true},
		{6, 8, false},
		{9, 8, false},
		{16, 8, true},
		{1, 3, true},
		{2, 3, false},
		{5, 1, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStrong(tt.step, tt.spb), "step %d of %d", tt.step, tt.spb)
	}
}

func TestSnapToChord(t *testing.T) {
	assert.Equal(t, ir.Pitch(64), SnapToChord(64, tonic))
	assert.Equal(t, ir.Pitch(60), SnapToChord(62, tonic))
	assert.Equal(t, ir.Pitch(64), SnapToChord(65, tonic))
	assert.Equal(t, ir.Pitch(48), SnapToChord(49, tonic))
	assert.Equal(t, ir.Pitch(84), SnapToChord(83, tonic))
}

func TestHarmonize(t *testing.T) {
	src := testutil.NewScriptedSource(0.1, 0.9)
	melody := []ir.Pitch{64, 75, ir.Rest, 76}

	res, err := Harmonize(src, melody, []ir.Triad{tonic}, 4, cMajor)
	require.NoError(t, err)

	assert.Equal(t, []ir.Pitch{64, 75, ir.Rest, 76}, res.Melody)
	assert.Equal(t, []ir.Pitch{67, 82, ir.Rest, ir.Rest}, res.Harmony)
	assert.Equal(t, 0, src.Remaining())
}

func TestHarmonizeSnapsStrongBeats(t *testing.T) {
	melody := []ir.Pitch{62, ir.Rest, 65, ir.Rest}

	res, err := Harmonize(testutil.NewScriptedSource(), melody, []ir.Triad{tonic}, 4, cMajor)
	require.NoError(t, err)

	assert.Equal(t, []ir.Pitch{60, ir.Rest, 64, ir.Rest}, res.Melody)
	assert.Equal(t, []ir.Pitch{64, ir.Rest, 67, ir.Rest}, res.Harmony)
	assert.Equal(t, []ir.Pitch{62, ir.Rest, 65, ir.Rest}, melody, "input is not modified")
}

func TestHarmonizeEvenWeakStepsDoNotDraw(t *testing.T) {
	// With eight steps per bar, step 2 is weak and even: no draw, no harmony.
	melody := []ir.Pitch{60, ir.Rest, 62, ir.Rest, 64, ir.Rest, ir.Rest, ir.Rest}
	src := testutil.NewScriptedSource()

	res, err := Harmonize(src, melody, []ir.Triad{tonic}, 8, cMajor)
	require.NoError(t, err)
	assert.Equal(t, ir.Rest, res.Harmony[2])
	assert.Equal(t, ir.Pitch(62), res.Melody[2])
	assert.Equal(t, 0, src.Draws())
}

func TestHarmonizeErrors(t *testing.T) {
	src := testutil.ConstantSource(0.5)

	_, err := Harmonize(src, []ir.Pitch{60}, []ir.Triad{tonic}, 0, cMajor)
	assert.Error(t, err)

	_, err = Harmonize(src, make([]ir.Pitch, 8), []ir.Triad{tonic}, 4, cMajor)
	assert.ErrorContains(t, err, "need 2 chords")

	_, err = Harmonize(src, []ir.Pitch{60}, []ir.Triad{tonic}, 4, ir.Key{Tonic: "C", Scale: "locrian"})
	assert.Error(t, err)
}
