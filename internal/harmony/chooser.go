// Package harmony picks one diatonic triad per bar by scoring each catalog
// chord against that bar's melody.
package harmony

import (
	"fmt"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/theory"
)

// Score weights.
const (
	StrongNoteBonus = 1.5
	PreferredBonus  = 0.25
	TonicBias       = 0.25
	DominantBonus   = 0.04
	// RootMotionWeight scales the closeness of a candidate's root to the
	// previous bar's root: weight * (6 - distance) / 6.
	RootMotionWeight = 0.5
)

// BarContext is everything the chooser looks at for one bar.
type BarContext struct {
	// Pitches are the bar's non-rest melody pitches in step order.
	Pitches []ir.Pitch
	// Preferred is the progression's degree for this bar, if any.
	Preferred ir.Degree
	// FirstBar enables the tonic bias.
	FirstBar bool
	// PrevRoot is the previous bar's root pitch class, or -1 when unknown.
	PrevRoot int
}

// Chooser scores the six catalog triads of one key.
type Chooser struct {
	triads []ir.Triad
}

// NewChooser builds the catalog triads for the key's tonic.
func NewChooser(key ir.Key) (*Chooser, error) {
	tonic, err := theory.TonicClass(key.Tonic)
	if err != nil {
		return nil, err
	}
	return &Chooser{triads: theory.CatalogTriads(tonic)}, nil
}

// Triads returns the catalog triads in tie-break order.
func (c *Chooser) Triads() []ir.Triad {
	return c.triads
}

// Score computes a candidate's fit to the bar.
func (c *Chooser) Score(t ir.Triad, bar BarContext) float64 {
	var counts [12]int
	for _, p := range bar.Pitches {
		counts[p.PitchClass()]++
	}

	score := 0.0
	for pc, n := range counts {
		if n > 0 && t.Contains(pc) {
			score += float64(n)
		}
	}
	if len(bar.Pitches) > 0 && t.Contains(bar.Pitches[0].PitchClass()) {
		score += StrongNoteBonus
	}
	if bar.Preferred != "" && t.Degree == bar.Preferred {
		score += PreferredBonus
	}
	if bar.FirstBar && t.Degree == ir.DegreeI {
		score += TonicBias
	}
	if t.Degree == ir.DegreeV {
		score += DominantBonus
	}
	if bar.PrevRoot >= 0 {
		dist := theory.ClassDistance(t.Root(), bar.PrevRoot)
		score += RootMotionWeight * float64(6-dist) / 6
	}
	return score
}

// Choose returns the best triad for one bar. An empty bar gets the tonic.
// If the winner misses the bar's first note, the first catalog triad that
// contains it is used instead.
func (c *Chooser) Choose(bar BarContext) ir.Triad {
	if len(bar.Pitches) == 0 {
		return c.triads[0]
	}

	best := c.triads[0]
	bestScore := c.Score(best, bar)
	for _, t := range c.triads[1:] {
		if s := c.Score(t, bar); s > bestScore {
			best, bestScore = t, s
		}
	}

	strong := bar.Pitches[0].PitchClass()
	if !best.Contains(strong) {
		for _, t := range c.triads {
			if t.Contains(strong) {
				return t
			}
		}
	}
	return best
}

// byDegree returns the catalog triad for d.
func (c *Chooser) byDegree(d ir.Degree) ir.Triad {
	for _, t := range c.triads {
		if t.Degree == d {
			return t
		}
	}
	panic(fmt.Sprintf("harmony: degree %q missing from catalog", d))
}

// ChooseAll picks a triad per bar of the melody, then applies the cadence:
// the second-to-last bar becomes V and the last bar becomes I.
func (c *Chooser) ChooseAll(melody []ir.Pitch, stepsPerBar int, prog ir.Progression) ([]ir.Triad, error) {
	if stepsPerBar <= 0 {
		return nil, fmt.Errorf("steps per bar must be positive, got %d", stepsPerBar)
	}
	if err := theory.ValidateProgression(prog); err != nil {
		return nil, err
	}

	bars := (len(melody) + stepsPerBar - 1) / stepsPerBar
	chords := make([]ir.Triad, bars)
	prevRoot := -1
	for b := 0; b < bars; b++ {
		start := b * stepsPerBar
		end := min(start+stepsPerBar, len(melody))

		chords[b] = c.Choose(BarContext{
			Pitches:   Sounding(melody[start:end]),
			Preferred: prog.At(b),
			FirstBar:  b == 0,
			PrevRoot:  prevRoot,
		})
		prevRoot = chords[b].Root()
	}

	if bars >= 2 {
		chords[bars-2] = c.byDegree(ir.DegreeV)
	}
	if bars >= 1 {
		chords[bars-1] = c.byDegree(ir.DegreeI)
	}
	return chords, nil
}

// Sounding filters rests out of a melody slice.
func Sounding(steps []ir.Pitch) []ir.Pitch {
	out := make([]ir.Pitch, 0, len(steps))
	for _, p := range steps {
		if !p.IsRest() {
			out = append(out, p)
		}
	}
	return out
}
