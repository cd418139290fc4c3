package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seedsong/internal/ir"
)

// cadenceComposition is a hand-built two-bar composition in C.
func cadenceComposition() *ir.Composition {
	return &ir.Composition{
		Key:         "C",
		Scale:       ir.ScaleMajor,
		Progression: ir.Progression{"I", "V"},
		StepsPerBar: 8,
		Melody:      make([]ir.Pitch, 16),
		Harmony:     make([]ir.Pitch, 16),
		Chords: []ir.Triad{
			{Degree: "V", PitchClasses: [3]int{7, 11, 2}, Pitches: [3]ir.Pitch{55, 59, 50}},
			{Degree: "I", PitchClasses: [3]int{0, 4, 7}, Pitches: [3]ir.Pitch{60, 52, 55}},
		},
	}
}

func fill(ps []ir.Pitch, p ir.Pitch) {
	for i := range ps {
		ps[i] = p
	}
}

func TestCheckCadence(t *testing.T) {
	c := cadenceComposition()
	assert.NoError(t, CheckCadence(c))

	c.Chords[0], c.Chords[1] = c.Chords[1], c.Chords[0]
	err := CheckCadence(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cadence")
}

func TestCheckCadence_SingleBar(t *testing.T) {
	c := cadenceComposition()
	c.Chords = c.Chords[:1]
	assert.NoError(t, CheckCadence(c))
}

func TestCheckRests(t *testing.T) {
	c := cadenceComposition()
	fill(c.Melody, 60)
	fill(c.Harmony, ir.Rest)
	c.Melody[3] = ir.Rest
	assert.NoError(t, CheckRests(c))

	c.Harmony[3] = 64
	assert.Error(t, CheckRests(c))
}

func TestCheckRange(t *testing.T) {
	c := cadenceComposition()
	fill(c.Melody, 60)
	fill(c.Harmony, ir.Rest)
	assert.NoError(t, CheckRange(c))

	c.Melody[0] = 90
	assert.ErrorContains(t, CheckRange(c), "melody[0]=90")

	c.Melody[0] = 60
	c.Harmony[5] = 40
	assert.ErrorContains(t, CheckRange(c), "harmony[5]=40")
}

func TestCheckLengths(t *testing.T) {
	c := cadenceComposition()
	assert.NoError(t, CheckLengths(c, ir.Request{Steps: 16}))
	assert.NoError(t, CheckLengths(c, ir.Request{Steps: 3}))
	assert.Error(t, CheckLengths(c, ir.Request{Steps: 24}))

	c.Harmony = c.Harmony[:15]
	assert.Error(t, CheckLengths(c, ir.Request{Steps: 16}))
}

func TestCheckVoiceLeading(t *testing.T) {
	c := cadenceComposition()
	// From V at {55,59,50} (mean 54.67), {60,52,55} costs 1.16.
	assert.NoError(t, CheckVoiceLeading(c))

	// The base voicing {48,52,55} costs 3.14.
	c.Chords[1].Pitches = [3]ir.Pitch{48, 52, 55}
	assert.ErrorContains(t, CheckVoiceLeading(c), "voice_leading")
}

func TestCheckVoiceLeading_IgnoresOutOfRegisterCandidates(t *testing.T) {
	c := cadenceComposition()
	c.Chords = []ir.Triad{
		{Degree: "vi", PitchClasses: [3]int{9, 0, 4}, Pitches: [3]ir.Pitch{57, 48, 52}},
		{Degree: "V", PitchClasses: [3]int{7, 11, 2}, Pitches: [3]ir.Pitch{55, 59, 50}},
	}
	// {55,47,50} would cost 1.83 against 2.51 but leaves the register.
	assert.NoError(t, CheckVoiceLeading(c))
}

func TestCheckProperties_UnknownProperty(t *testing.T) {
	errs := CheckProperties(cadenceComposition(), ir.Request{Steps: 16}, []string{"swing"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "swing")
}

func TestCheckExpectations_NullableMelody(t *testing.T) {
	c := cadenceComposition()
	fill(c.Melody, 60)
	c.Melody[2] = ir.Rest

	sixty := 60
	want := make([]*int, 16)
	for i := range want {
		want[i] = &sixty
	}
	want[2] = nil
	assert.Empty(t, CheckExpectations(c, ExpectClause{Melody: want}))

	want[2] = &sixty
	errs := CheckExpectations(c, ExpectClause{Melody: want})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "null")
}

func TestCheckExpectations_Chords(t *testing.T) {
	c := cadenceComposition()
	assert.Empty(t, CheckExpectations(c, ExpectClause{
		Chords:  [][]int{{55, 59, 50}, {60, 52, 55}},
		Degrees: []string{"V", "I"},
	}))
	assert.Len(t, CheckExpectations(c, ExpectClause{Chords: [][]int{{55, 59, 50}}}), 1)
}
