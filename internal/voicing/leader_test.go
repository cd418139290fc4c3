package voicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seedsong/internal/ir"
)

func TestVoicingMeasures(t *testing.T) {
	v := Voicing{48, 52, 55}
	assert.InDelta(t, 155.0/3, v.Mean(), 1e-9)
	assert.InDelta(t, 7.0, v.Spread(), 1e-9)
	assert.InDelta(t, 9.0, Voicing{55, 59, 50}.Spread(), 1e-9)

	assert.True(t, v.InRange())
	assert.True(t, Voicing{48, 84, 60}.InRange())
	assert.False(t, Voicing{47, 52, 55}.InRange())
	assert.False(t, Voicing{60, 64, 85}.InRange())
}

func TestCost(t *testing.T) {
	prev := Voicing{48, 52, 55}
	assert.InDelta(t, SpreadWeight*7, Cost(prev, prev), 1e-9)
	assert.InDelta(t, 3+SpreadWeight*9, Cost(Voicing{55, 59, 50}, prev), 1e-9)
}

func TestCandidates(t *testing.T) {
	base := Voicing{55, 59, 62}
	cands := Candidates(base)
	require.Len(t, cands, 27)
	assert.Equal(t, Voicing{43, 47, 50}, cands[0])
	assert.Equal(t, base, cands[13])
	assert.Equal(t, Voicing{67, 71, 74}, cands[26])
	assert.Equal(t, Voicing{43, 47, 62}, cands[1])
}

func TestNext(t *testing.T) {
	tests := []struct {
		name       string
		base, prev Voicing
		want       Voicing
	}{
		{"dominant after tonic", Voicing{55, 59, 62}, Voicing{48, 52, 55}, Voicing{55, 59, 50}},
		{"tonic after dominant", Voicing{48, 52, 55}, Voicing{55, 59, 50}, Voicing{60, 52, 55}},
		{"repeat stays put", Voicing{48, 52, 55}, Voicing{48, 52, 55}, Voicing{48, 52, 55}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.base, tt.prev)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.InRange())
		})
	}
}

func TestNextPreservesPitchClasses(t *testing.T) {
	base := Voicing{57, 60, 64}
	got := Next(base, Voicing{76, 79, 83})
	for i := range base {
		assert.Equal(t, base[i].PitchClass(), got[i].PitchClass())
	}
}

func TestLead(t *testing.T) {
	tonic := ir.Triad{Degree: ir.DegreeI, PitchClasses: [3]int{0, 4, 7}, Pitches: [3]ir.Pitch{48, 52, 55}}
	dominant := ir.Triad{Degree: ir.DegreeV, PitchClasses: [3]int{7, 11, 2}, Pitches: [3]ir.Pitch{55, 59, 62}}
	chords := []ir.Triad{tonic, tonic, dominant, tonic}

	led := Lead(chords)
	require.Len(t, led, 4)
	assert.Equal(t, [3]ir.Pitch{48, 52, 55}, led[0].Pitches)
	assert.Equal(t, [3]ir.Pitch{48, 52, 55}, led[1].Pitches)
	assert.Equal(t, [3]ir.Pitch{55, 59, 50}, led[2].Pitches)
	assert.Equal(t, [3]ir.Pitch{60, 52, 55}, led[3].Pitches)

	assert.Equal(t, [3]ir.Pitch{55, 59, 62}, chords[2].Pitches, "input is not modified")
	assert.Empty(t, Lead(nil))
}

func TestNextPrefersRegisterOverUnrestrictedMinimum(t *testing.T) {
	tests := []struct {
		name             string
		base, prev       Voicing
		want             Voicing
		outOfRegisterMin Voicing
	}{
		{"dominant of C", Voicing{55, 59, 62}, Voicing{57, 48, 52}, Voicing{55, 59, 50}, Voicing{55, 47, 50}},
		{"mediant of G", Voicing{59, 62, 66}, Voicing{48, 52, 55}, Voicing{59, 50, 54}, Voicing{47, 50, 54}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unrestricted := tt.base
			bestCost := Cost(tt.base, tt.prev)
			for _, cand := range Candidates(tt.base) {
				if c := Cost(cand, tt.prev); c < bestCost {
					unrestricted, bestCost = cand, c
				}
			}
			require.Equal(t, tt.outOfRegisterMin, unrestricted)
			require.False(t, unrestricted.InRange())

			got := Next(tt.base, tt.prev)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.InRange())
			assert.Greater(t, Cost(got, tt.prev), bestCost)

			for _, cand := range Candidates(tt.base) {
				if cand.InRange() {
					assert.GreaterOrEqual(t, Cost(cand, tt.prev), Cost(got, tt.prev), "%v", cand)
				}
			}
		})
	}
}
