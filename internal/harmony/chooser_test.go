package harmony

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seedsong/internal/ir"
)

func newCMajor(t *testing.T) *Chooser {
	t.Helper()
	c, err := NewChooser(ir.Key{Tonic: "C", Scale: ir.ScaleMajor})
	require.NoError(t, err)
	return c
}

func TestNewChooserUnknownKey(t *testing.T) {
	_, err := NewChooser(ir.Key{Tonic: "X", Scale: ir.ScaleMajor})
	assert.Error(t, err)
}

func TestChooserTriadsOrder(t *testing.T) {
	c := newCMajor(t)
	var got []ir.Degree
	for _, tr := range c.Triads() {
		got = append(got, tr.Degree)
	}
	assert.Equal(t, []ir.Degree{"I", "ii", "iii", "IV", "V", "vi"}, got)
}

func TestScore(t *testing.T) {
	c := newCMajor(t)
	tonic := c.Triads()[0]
	bar := BarContext{Pitches: []ir.Pitch{60, 64, 67}, PrevRoot: -1}

	assert.InDelta(t, 3+StrongNoteBonus, c.Score(tonic, bar), 1e-9)

	bar.Preferred = ir.DegreeI
	bar.FirstBar = true
	assert.InDelta(t, 3+StrongNoteBonus+PreferredBonus+TonicBias, c.Score(tonic, bar), 1e-9)

	bar.PrevRoot = 0
	assert.InDelta(t, 3+StrongNoteBonus+PreferredBonus+TonicBias+RootMotionWeight, c.Score(tonic, bar), 1e-9)

	dominant := c.Triads()[4]
	assert.InDelta(t, 1+DominantBonus+RootMotionWeight*1/6, c.Score(dominant, BarContext{
		Pitches:  []ir.Pitch{60, 67},
		PrevRoot: 0,
	}), 1e-9)
}

func TestChooseEmptyBarIsTonic(t *testing.T) {
	c := newCMajor(t)
	assert.Equal(t, ir.DegreeI, c.Choose(BarContext{PrevRoot: 4}).Degree)
}

func TestChooseDominantBreaksTie(t *testing.T) {
	c := newCMajor(t)
	// D fits ii and V equally; V carries the dominant bonus.
	got := c.Choose(BarContext{Pitches: []ir.Pitch{62}, PrevRoot: -1})
	assert.Equal(t, ir.DegreeV, got.Degree)
}

func TestChooseKeepsStrongNote(t *testing.T) {
	c := newCMajor(t)
	// IV scores highest on the F and A notes but misses the opening B, so
	// the first catalog chord holding B wins instead.
	got := c.Choose(BarContext{Pitches: []ir.Pitch{71, 65, 69, 65, 69, 60}, PrevRoot: -1})
	assert.Equal(t, ir.DegreeIII, got.Degree)
}

func TestChooseAllCadence(t *testing.T) {
	c := newCMajor(t)
	melody := []ir.Pitch{
		62, 65, 69, ir.Rest,
		64, 67, 71, 64,
		65, 69, 72, 65,
		69, 72, 76, 69,
	}
	chords, err := c.ChooseAll(melody, 4, ir.Progression{ir.DegreeII, ir.DegreeIII})
	require.NoError(t, err)
	require.Len(t, chords, 4)

	assert.Equal(t, ir.DegreeII, chords[0].Degree)
	assert.Equal(t, ir.DegreeIII, chords[1].Degree)
	assert.Equal(t, ir.DegreeV, chords[2].Degree)
	assert.Equal(t, ir.DegreeI, chords[3].Degree)
}

func TestChooseAllPartialBar(t *testing.T) {
	c := newCMajor(t)
	chords, err := c.ChooseAll([]ir.Pitch{60, 64, 67, 72, 62}, 4, ir.Progression{ir.DegreeI})
	require.NoError(t, err)
	require.Len(t, chords, 2)
	assert.Equal(t, ir.DegreeV, chords[0].Degree)
	assert.Equal(t, ir.DegreeI, chords[1].Degree)
}

func TestChooseAllSingleBar(t *testing.T) {
	c := newCMajor(t)
	chords, err := c.ChooseAll([]ir.Pitch{62, 65, 69, 62}, 4, ir.Progression{ir.DegreeII})
	require.NoError(t, err)
	require.Len(t, chords, 1)
	assert.Equal(t, ir.DegreeI, chords[0].Degree)
}

func TestChooseAllErrors(t *testing.T) {
	c := newCMajor(t)

	_, err := c.ChooseAll([]ir.Pitch{60}, 0, ir.Progression{ir.DegreeI})
	assert.Error(t, err)

	_, err = c.ChooseAll([]ir.Pitch{60}, 4, ir.Progression{"VII"})
	assert.Error(t, err)

	_, err = c.ChooseAll([]ir.Pitch{60}, 4, nil)
	assert.Error(t, err)
}

func TestSounding(t *testing.T) {
	assert.Equal(t, []ir.Pitch{60, 64}, Sounding([]ir.Pitch{ir.Rest, 60, ir.Rest, 64}))
	assert.Empty(t, Sounding([]ir.Pitch{ir.Rest}))
}
