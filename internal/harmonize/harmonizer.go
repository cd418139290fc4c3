// Package harmonize fits the melody to the final chords and derives the
// secondary harmony voice.
package harmonize

import (
	"fmt"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/rng"
	"github.com/roach88/seedsong/internal/theory"
)

// WeakHarmonyChance is the probability that an odd, non-strong step gets a
// harmony note.
const WeakHarmonyChance = 0.25

// Corrections are the offsets tried when a strong-beat note misses the
// chord, in tie-break order.
var Corrections = [4]int{-1, 1, -2, 2}

// IsStrong reports whether step i falls on the first or middle position of
// its bar.
func IsStrong(i, stepsPerBar int) bool {
	pos := i % stepsPerBar
	return pos == 0 || pos == stepsPerBar/2
}

// SnapToChord returns p unchanged if its pitch class is a chord tone;
// otherwise p moved by the correction whose pitch class lands nearest to
// any chord tone. The result is folded back into the register.
func SnapToChord(p ir.Pitch, chord ir.Triad) ir.Pitch {
	if chord.Contains(p.PitchClass()) {
		return p
	}
	best, bestDist := 0, 13
	for _, off := range Corrections {
		pc := (p + ir.Pitch(off)).PitchClass()
		d := 13
		for _, c := range chord.PitchClasses {
			d = min(d, theory.ClassDistance(pc, c))
		}
		if d < bestDist {
			best, bestDist = off, d
		}
	}
	return theory.FoldRegister(p + ir.Pitch(best))
}

// Result holds the corrected melody and its parallel harmony voice.
type Result struct {
	Melody  []ir.Pitch
	Harmony []ir.Pitch
}

// Harmonize walks the melody once. Strong steps are snapped to the bar's
// chord and always receive a diatonic third; odd weak steps receive one
// with probability WeakHarmonyChance (one draw per odd, sounding, weak
// step). Rests yield rests in both voices. The input is not modified.
func Harmonize(src rng.Source, melody []ir.Pitch, chords []ir.Triad, stepsPerBar int, key ir.Key) (Result, error) {
	if stepsPerBar <= 0 {
		return Result{}, fmt.Errorf("steps per bar must be positive, got %d", stepsPerBar)
	}
	if want := (len(melody) + stepsPerBar - 1) / stepsPerBar; len(chords) != want {
		return Result{}, fmt.Errorf("need %d chords for %d steps, got %d", want, len(melody), len(chords))
	}
	classes, err := theory.PitchClasses(key.Tonic, key.Scale)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Melody:  make([]ir.Pitch, len(melody)),
		Harmony: make([]ir.Pitch, len(melody)),
	}
	for i, p := range melody {
		res.Melody[i] = p
		res.Harmony[i] = ir.Rest
		if p.IsRest() {
			continue
		}

		if IsStrong(i, stepsPerBar) {
			p = SnapToChord(p, chords[i/stepsPerBar])
			res.Melody[i] = p
			res.Harmony[i] = third(p, classes)
			continue
		}
		if i%2 == 1 && rng.Chance(src, WeakHarmonyChance) {
			res.Harmony[i] = third(p, classes)
		}
	}
	return res, nil
}

func third(p ir.Pitch, classes [7]int) ir.Pitch {
	return theory.FoldRegister(theory.DiatonicThird(p, classes))
}
