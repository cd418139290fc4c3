package theory

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/seedsong/internal/ir"
)

var (
	ErrUnknownKey    = errors.New("unknown key")
	ErrUnknownScale  = errors.New("unknown scale")
	ErrUnknownDegree = errors.New("unknown degree")
)

// Tonics lists the seven natural-letter tonics in selection order.
var Tonics = []ir.Tonic{"C", "D", "E", "F", "G", "A", "B"}

var tonicClass = map[ir.Tonic]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

var scaleSteps = map[ir.Scale][7]int{
	ir.ScaleMajor: {0, 2, 4, 5, 7, 9, 11},
	ir.ScaleMinor: {0, 2, 3, 5, 7, 8, 10},
}

var lower = cases.Lower(language.Und)

// TonicClass returns the pitch class of a natural-letter tonic.
func TonicClass(t ir.Tonic) (int, error) {
	pc, ok := tonicClass[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, string(t))
	}
	return pc, nil
}

// ParseTonic accepts a letter in either case.
func ParseTonic(s string) (ir.Tonic, error) {
	t := ir.Tonic(strings.ToUpper(strings.TrimSpace(s)))
	if _, err := TonicClass(t); err != nil {
		return "", err
	}
	return t, nil
}

// ParseScale accepts "major" or "minor" in any case.
func ParseScale(s string) (ir.Scale, error) {
	sc := ir.Scale(lower.String(strings.TrimSpace(s)))
	if _, ok := scaleSteps[sc]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScale, s)
	}
	return sc, nil
}

// Steps returns the seven semitone offsets of a scale from its tonic.
func Steps(sc ir.Scale) ([7]int, error) {
	steps, ok := scaleSteps[sc]
	if !ok {
		return [7]int{}, fmt.Errorf("%w: %q", ErrUnknownScale, string(sc))
	}
	return steps, nil
}

// PitchClasses returns the scale's seven absolute pitch classes.
func PitchClasses(t ir.Tonic, sc ir.Scale) ([7]int, error) {
	var out [7]int
	tonic, err := TonicClass(t)
	if err != nil {
		return out, err
	}
	steps, err := Steps(sc)
	if err != nil {
		return out, err
	}
	for i, s := range steps {
		out[i] = (tonic + s) % 12
	}
	return out, nil
}

// Fold moves p by octaves until it lies within [lo, hi].
func Fold(p, lo, hi ir.Pitch) ir.Pitch {
	for p < lo {
		p += 12
	}
	for p > hi {
		p -= 12
	}
	return p
}

// FoldRegister folds p into the melody register [48, 84].
func FoldRegister(p ir.Pitch) ir.Pitch {
	return Fold(p, ir.MinPitch, ir.MaxPitch)
}

// ClassDistance is the circular distance between two pitch classes (0-6).
func ClassDistance(a, b int) int {
	d := ((a-b)%12 + 12) % 12
	if d > 6 {
		d = 12 - d
	}
	return d
}

// ScaleIndex returns the index of the scale step nearest to pc, preferring
// the lower index on ties. Off-scale pitches resolve to a neighbour.
func ScaleIndex(pc int, classes [7]int) int {
	best, bestDist := 0, 13
	for i, c := range classes {
		if d := ClassDistance(pc, c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// DiatonicThird returns the pitch two scale steps above p. The interval is
// the smallest positive offset landing on that step; intervals under three
// semitones are widened by five.
func DiatonicThird(p ir.Pitch, classes [7]int) ir.Pitch {
	idx := ScaleIndex(p.PitchClass(), classes)
	target := classes[(idx+2)%7]

	offset := ((target-p.PitchClass())%12 + 12) % 12
	if offset == 0 {
		offset = 12
	}
	if offset < 3 {
		offset += 5
	}
	return p + ir.Pitch(offset)
}
