// Package voicing re-voices each bar's triad so consecutive chords move as
// little as possible. Only octave placement changes; pitch classes never do.
package voicing

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/roach88/seedsong/internal/ir"
)

// SpreadWeight penalizes wide voicings relative to centroid motion.
const SpreadWeight = 0.02

// Shifts are the per-tone transpositions tried, in enumeration order.
var Shifts = [3]ir.Pitch{-12, 0, 12}

// Voicing is a concrete placement of a triad's three tones.
type Voicing [3]ir.Pitch

func (v Voicing) floats() []float64 {
	return []float64{float64(v[0]), float64(v[1]), float64(v[2])}
}

// Mean is the centroid of the voicing.
func (v Voicing) Mean() float64 {
	return stat.Mean(v.floats(), nil)
}

// Spread is the distance from lowest to highest tone.
func (v Voicing) Spread() float64 {
	f := v.floats()
	return floats.Max(f) - floats.Min(f)
}

// InRange reports whether every tone lies within the shared register.
func (v Voicing) InRange() bool {
	for _, p := range v {
		if p < ir.MinPitch || p > ir.MaxPitch {
			return false
		}
	}
	return true
}

// Cost of moving from prev to candidate:
// |mean(candidate) - mean(prev)| + SpreadWeight * spread(candidate).
func Cost(candidate, prev Voicing) float64 {
	return math.Abs(candidate.Mean()-prev.Mean()) + SpreadWeight*candidate.Spread()
}

// Candidates enumerates all 27 transpositions of base, first tone outermost.
func Candidates(base Voicing) []Voicing {
	out := make([]Voicing, 0, 27)
	for _, a := range Shifts {
		for _, b := range Shifts {
			for _, c := range Shifts {
				out = append(out, Voicing{base[0] + a, base[1] + b, base[2] + c})
			}
		}
	}
	return out
}

// Next picks the admissible candidate of base with the lowest cost from
// prev. Candidates leaving the register are skipped even when they would
// cost less, so the result minimizes over in-register candidates only; ties
// keep the earliest.
// The untransposed base is always admissible, so a result always exists.
func Next(base, prev Voicing) Voicing {
	best := base
	bestCost := math.Inf(1)
	for _, cand := range Candidates(base) {
		if !cand.InRange() {
			continue
		}
		if c := Cost(cand, prev); c < bestCost {
			best, bestCost = cand, c
		}
	}
	return best
}

// Lead returns the chords re-voiced bar by bar. Bar 0 keeps its base
// voicing; every later bar follows the voicing chosen before it.
func Lead(chords []ir.Triad) []ir.Triad {
	out := make([]ir.Triad, len(chords))
	copy(out, chords)
	for i := 1; i < len(out); i++ {
		v := Next(Voicing(out[i].Pitches), Voicing(out[i-1].Pitches))
		out[i].Pitches = [3]ir.Pitch(v)
	}
	return out
}
