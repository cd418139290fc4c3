package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alphaCanonical = `{"arrangement":{"bass":[[36,43,36,40],[36,43,36,40],[43,38,43,47],[48,43,48,40]],"figure":[[48,52,55,48,52,55],[48,52,55,48,52,55],[55,59,50,55,59,50],[60,52,55,60,52,55]],"style":"block"},"chords":[{"degree":"I","pitch_classes":[0,4,7],"pitches":[48,52,55]},{"degree":"I","pitch_classes":[0,4,7],"pitches":[48,52,55]},{"degree":"V","pitch_classes":[7,11,2],"pitches":[55,59,50]},{"degree":"I","pitch_classes":[0,4,7],"pitches":[60,52,55]}],"harmony":[67,null,64,null,67,null,76,null,65,82,65,67,64,null,64,null],"key":"C","melody":[64,75,60,76,64,null,72,76,62,75,62,64,60,73,60,74],"progression":["I","vi","IV","V"],"scale":"major","seed":"alpha","steps_per_bar":4,"version":"1"}`

// alphaComposition is the engine's output for seed "alpha" at 16 steps,
// 4 steps per bar.
func alphaComposition() *Composition {
	tonic := Triad{Degree: DegreeI, PitchClasses: [3]int{0, 4, 7}, Pitches: [3]Pitch{48, 52, 55}}
	return &Composition{
		Seed:        "alpha",
		Key:         "C",
		Scale:       ScaleMajor,
		Progression: Progression{DegreeI, DegreeVI, DegreeIV, DegreeV},
		StepsPerBar: 4,
		Melody:      []Pitch{64, 75, 60, 76, 64, Rest, 72, 76, 62, 75, 62, 64, 60, 73, 60, 74},
		Harmony:     []Pitch{67, Rest, 64, Rest, 67, Rest, 76, Rest, 65, 82, 65, 67, 64, Rest, 64, Rest},
		Chords: []Triad{
			tonic,
			tonic,
			{Degree: DegreeV, PitchClasses: [3]int{7, 11, 2}, Pitches: [3]Pitch{55, 59, 50}},
			{Degree: DegreeI, PitchClasses: [3]int{0, 4, 7}, Pitches: [3]Pitch{60, 52, 55}},
		},
		Arrangement: Arrangement{
			Style: "block",
			Bass: [][]Pitch{
				{36, 43, 36, 40}, {36, 43, 36, 40}, {43, 38, 43, 47}, {48, 43, 48, 40},
			},
			Figure: [][]Pitch{
				{48, 52, 55, 48, 52, 55}, {48, 52, 55, 48, 52, 55},
				{55, 59, 50, 55, 59, 50}, {60, 52, 55, 60, 52, 55},
			},
		},
	}
}

func TestPitch(t *testing.T) {
	assert.True(t, Rest.IsRest())
	assert.False(t, Pitch(60).IsRest())
	assert.Equal(t, 0, Pitch(60).PitchClass())
	assert.Equal(t, 11, Pitch(59).PitchClass())
	assert.Equal(t, 1, Pitch(85).PitchClass())
}

func TestPitchJSON(t *testing.T) {
	data, err := json.Marshal([]Pitch{60, Rest, 72})
	require.NoError(t, err)
	assert.Equal(t, `[60,null,72]`, string(data))

	var decoded []Pitch
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []Pitch{60, Rest, 72}, decoded)

	var p Pitch
	assert.Error(t, json.Unmarshal([]byte(`"C4"`), &p))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "F minor", Key{Tonic: "F", Scale: ScaleMinor}.String())
}

func TestProgressionAt(t *testing.T) {
	p := Progression{DegreeII, DegreeV, DegreeI}
	assert.Equal(t, DegreeII, p.At(0))
	assert.Equal(t, DegreeI, p.At(2))
	assert.Equal(t, DegreeII, p.At(3))
	assert.Equal(t, DegreeV, p.At(7))
}

func TestTriad(t *testing.T) {
	v := Triad{Degree: DegreeV, PitchClasses: [3]int{7, 11, 2}, Pitches: [3]Pitch{55, 59, 50}}
	assert.True(t, v.Contains(2))
	assert.False(t, v.Contains(0))
	assert.Equal(t, 7, v.Root())
}

func TestCompositionAccessors(t *testing.T) {
	c := alphaComposition()
	assert.Equal(t, 4, c.Bars())
	bars := c.ChordsPerBar()
	require.Len(t, bars, 4)
	assert.Equal(t, [3]Pitch{60, 52, 55}, bars[3])
}

func TestCompositionJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(alphaComposition())
	require.NoError(t, err)

	var decoded Composition
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, alphaComposition(), &decoded)
	assert.Equal(t, alphaID, MustCompositionID(&decoded))
}
