// Package arrange derives accompaniment pitch figures from the voiced chords.
// It produces pitches only; timing belongs to whoever plays them back.
package arrange

import (
	"errors"
	"fmt"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/rng"
	"github.com/roach88/seedsong/internal/theory"
)

// Figure styles.
const (
	StyleBlock   = "block"
	StyleAlberti = "alberti"
	StyleBroken  = "broken"
)

// Styles lists the figure styles in draw order.
var Styles = []string{StyleBlock, StyleAlberti, StyleBroken}

// ErrUnknownStyle is returned for a figure style outside Styles.
var ErrUnknownStyle = errors.New("unknown figure style")

// Bass register, an octave below the melody register.
const (
	BassLow  ir.Pitch = 36
	BassHigh ir.Pitch = 72
)

// bassPattern indexes chord tones modulo three for the four bass notes.
var bassPattern = [4]int{0, 2, 3, 1}

var figurePatterns = map[string][]int{
	StyleBlock:   {0, 1, 2, 0, 1, 2},
	StyleAlberti: {0, 2, 1, 2},
	StyleBroken:  {0, 1, 2, 1, 0, 1},
}

// PickStyle draws a figure style.
func PickStyle(src rng.Source) string {
	return Styles[rng.Intn(src, len(Styles))]
}

// Bass returns the four bass notes for a chord, one octave down.
func Bass(t ir.Triad) []ir.Pitch {
	out := make([]ir.Pitch, len(bassPattern))
	for i, idx := range bassPattern {
		out[i] = theory.Fold(t.Pitches[idx%3]-12, BassLow, BassHigh)
	}
	return out
}

// Figure returns the keyboard figure for a chord in the given style.
func Figure(t ir.Triad, style string) ([]ir.Pitch, error) {
	pattern, ok := figurePatterns[style]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	out := make([]ir.Pitch, len(pattern))
	for i, idx := range pattern {
		out[i] = theory.FoldRegister(t.Pitches[idx])
	}
	return out, nil
}

// Arrange draws a style and builds bass and figure lines for every bar.
func Arrange(chords []ir.Triad, src rng.Source) (ir.Arrangement, error) {
	return ArrangeStyle(chords, PickStyle(src))
}

// ArrangeStyle builds bass and figure lines for every bar in a fixed style.
func ArrangeStyle(chords []ir.Triad, style string) (ir.Arrangement, error) {
	a := ir.Arrangement{
		Style:  style,
		Bass:   make([][]ir.Pitch, len(chords)),
		Figure: make([][]ir.Pitch, len(chords)),
	}
	for i, t := range chords {
		fig, err := Figure(t, style)
		if err != nil {
			return ir.Arrangement{}, err
		}
		a.Bass[i] = Bass(t)
		a.Figure[i] = fig
	}
	return a, nil
}
