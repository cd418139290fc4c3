// Package melody builds the lead voice from a seeded four-note motif.
//
// Each probabilistic decision is a small function taking an injected
// rng.Source, so every branch can be driven directly from tests.
package melody

import (
	"fmt"
	"math"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/rng"
	"github.com/roach88/seedsong/internal/theory"
)

// Step-count bounds applied to every request.
const (
	MinSteps = 16
	MaxSteps = 256
)

// MotifLength is the number of notes in the seed motif.
const MotifLength = 4

// Probabilities of each motif decision.
const (
	InvertChance  = 0.5
	ReverseChance = 0.35
	DriftChance   = 0.6
	LeapChance    = 0.15
	RestChance    = 0.07
)

// DriftInterval is the cumulative shift applied at a drifting group boundary.
const DriftInterval = 2

// GroupSize is the number of steps between drift decisions.
const GroupSize = 4

// motifOctaves biases motif notes toward octaves 4 and 5. Octave 6 never
// appears; changing this table changes every composition.
var motifOctaves = [7]int{4, 4, 5, 3, 5, 4, 5}

// Motif is the working set of pitches the melody cycles through.
type Motif [MotifLength]ir.Pitch

// ClampSteps bounds a step count to [MinSteps, MaxSteps].
func ClampSteps(n int) int {
	return max(MinSteps, min(MaxSteps, n))
}

// StepsFromHint converts an untrusted numeric hint into a clamped step
// count. Non-finite and fractional hints are rejected rather than guessed.
func StepsFromHint(hint float64) (int, error) {
	if math.IsNaN(hint) || math.IsInf(hint, 0) {
		return 0, fmt.Errorf("step count must be finite, got %v", hint)
	}
	if hint != math.Trunc(hint) {
		return 0, fmt.Errorf("step count must be an integer, got %v", hint)
	}
	hint = math.Max(MinSteps, math.Min(MaxSteps, hint))
	return int(hint), nil
}

// BuildMotif draws four notes. Each note is a uniformly chosen scale pitch
// class (one draw) placed in an octave from the weighted table (one draw).
func BuildMotif(src rng.Source, classes [7]int) Motif {
	var m Motif
	for i := range m {
		pc := classes[rng.Intn(src, len(classes))]
		octave := motifOctaves[rng.Intn(src, len(motifOctaves))]
		m[i] = ir.Pitch(pc + 12*octave)
	}
	return m
}

// Invert reflects every note about the first one.
func (m Motif) Invert() Motif {
	var out Motif
	for i, p := range m {
		out[i] = m[0] - (p - m[0])
	}
	return out
}

// Reverse returns the motif in retrograde.
func (m Motif) Reverse() Motif {
	var out Motif
	for i, p := range m {
		out[len(m)-1-i] = p
	}
	return out
}

// Shift moves every note by delta semitones.
func (m Motif) Shift(delta int) Motif {
	var out Motif
	for i, p := range m {
		out[i] = p + ir.Pitch(delta)
	}
	return out
}

// Transform draws both transformation decisions first, then applies
// inversion followed by retrograde.
func Transform(src rng.Source, m Motif) Motif {
	invert := rng.Chance(src, InvertChance)
	reverse := rng.Chance(src, ReverseChance)
	if invert {
		m = m.Invert()
	}
	if reverse {
		m = m.Reverse()
	}
	return m
}

// Drift decides the shift for a group boundary: ±DriftInterval with
// probability DriftChance, else zero. The sign is only drawn when drifting.
func Drift(src rng.Source) int {
	if !rng.Chance(src, DriftChance) {
		return 0
	}
	return DriftInterval * rng.Sign(src)
}

// Leap decides a single-note octave jump for one step.
func Leap(src rng.Source) int {
	if !rng.Chance(src, LeapChance) {
		return 0
	}
	return 12 * rng.Sign(src)
}

// RestDecision decides whether a computed step is replaced by a rest.
func RestDecision(src rng.Source) bool {
	return rng.Chance(src, RestChance)
}

// Generate builds a melody of ClampSteps(steps) pitches in the given key.
func Generate(src rng.Source, steps int, key ir.Key) ([]ir.Pitch, error) {
	classes, err := theory.PitchClasses(key.Tonic, key.Scale)
	if err != nil {
		return nil, err
	}
	steps = ClampSteps(steps)

	motif := Transform(src, BuildMotif(src, classes))
	melody := make([]ir.Pitch, steps)
	for i := range melody {
		if i > 0 && i%GroupSize == 0 {
			motif = motif.Shift(Drift(src))
		}
		note := motif[i%MotifLength] + ir.Pitch(Leap(src))
		note = theory.FoldRegister(note)
		if RestDecision(src) {
			melody[i] = ir.Rest
			continue
		}
		melody[i] = note
	}
	return melody, nil
}
