package theory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/seedsong/internal/ir"
)

// MappingStyle controls how MapMelody treats notes outside the scale.
type MappingStyle string

const (
	// StyleLiteral keeps every parsed pitch as written.
	StyleLiteral MappingStyle = "literal"
	// StyleQuantize snaps every pitch to the nearest scale step.
	StyleQuantize MappingStyle = "quant"
	// StyleHybrid snaps only pitches within one semitone of the scale.
	StyleHybrid MappingStyle = "hybrid"
)

var notePattern = regexp.MustCompile(`^([A-Ga-g])([#b]?)(\d)$`)

var letterClass = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

// ParseNote converts a name like "C4", "F#3" or "Bb5" to a pitch.
// C4 is 60.
func ParseNote(s string) (ir.Pitch, error) {
	m := notePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ir.Rest, fmt.Errorf("invalid note %q", s)
	}
	base := letterClass[strings.ToUpper(m[1])]
	alt := 0
	switch m[2] {
	case "#":
		alt = 1
	case "b":
		alt = -1
	}
	octave := int(m[3][0] - '0')
	return ir.Pitch((octave+1)*12 + base + alt), nil
}

// SplitNotes splits a note list on commas and whitespace.
func SplitNotes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// Quantize snaps p to the nearest scale step relative to tonicPitch, then
// picks whichever octave of that step lies closest to p.
func Quantize(p, tonicPitch ir.Pitch, steps [7]int) ir.Pitch {
	rel := ((int(p-tonicPitch) % 12) + 12) % 12

	best, bestDiff := 0, 99
	for _, deg := range steps {
		if d := ClassDistance(rel, deg); d < bestDiff {
			best, bestDiff = deg, d
		}
	}

	base := p - ir.Pitch(rel) + ir.Pitch(best)
	candidates := []ir.Pitch{base, base + 12, base - 12}
	closest := candidates[0]
	for _, c := range candidates[1:] {
		if absPitch(c-p) < absPitch(closest-p) {
			closest = c
		}
	}
	return closest
}

// MapMelody parses note names and maps them into the key using style.
// Unparseable names are skipped and reported in the returned slice.
func MapMelody(names []string, key ir.Key, style MappingStyle) ([]ir.Pitch, []string, error) {
	tonic, err := TonicClass(key.Tonic)
	if err != nil {
		return nil, nil, err
	}
	steps, err := Steps(key.Scale)
	if err != nil {
		return nil, nil, err
	}
	tonicPitch := ir.Pitch(60 + tonic)

	var out []ir.Pitch
	var skipped []string
	for _, name := range names {
		p, err := ParseNote(name)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		switch style {
		case StyleLiteral:
			out = append(out, p)
		case StyleQuantize:
			out = append(out, Quantize(p, tonicPitch, steps))
		case StyleHybrid, "":
			q := Quantize(p, tonicPitch, steps)
			if absPitch(q-p) <= 1 {
				out = append(out, q)
			} else {
				out = append(out, p)
			}
		default:
			return nil, nil, fmt.Errorf("unknown mapping style %q", style)
		}
	}
	return out, skipped, nil
}

func absPitch(p ir.Pitch) ir.Pitch {
	if p < 0 {
		return -p
	}
	return p
}
