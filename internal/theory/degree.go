package theory

import (
	"fmt"
	"strings"

	"github.com/roach88/seedsong/internal/ir"
)

// Degrees lists the chord catalog in tie-break order.
var Degrees = []ir.Degree{
	ir.DegreeI, ir.DegreeII, ir.DegreeIII, ir.DegreeIV, ir.DegreeV, ir.DegreeVI,
}

// Semitone offsets from the tonic. Offsets past 11 keep the tones stacked
// upward when the triad is placed in the base register.
var degreeOffsets = map[ir.Degree][3]int{
	ir.DegreeI:   {0, 4, 7},
	ir.DegreeII:  {2, 5, 9},
	ir.DegreeIII: {4, 7, 11},
	ir.DegreeIV:  {5, 9, 12},
	ir.DegreeV:   {7, 11, 14},
	ir.DegreeVI:  {9, 12, 16},
}

// BaseRegister is the lowest pitch of the base triad voicing (C3).
const BaseRegister ir.Pitch = 48

// Progressions is the catalog of four-degree cyclic templates.
var Progressions = []ir.Progression{
	{ir.DegreeI, ir.DegreeV, ir.DegreeVI, ir.DegreeIV},
	{ir.DegreeVI, ir.DegreeIV, ir.DegreeI, ir.DegreeV},
	{ir.DegreeI, ir.DegreeVI, ir.DegreeIV, ir.DegreeV},
	{ir.DegreeII, ir.DegreeV, ir.DegreeI, ir.DegreeVI},
	{ir.DegreeI, ir.DegreeIV, ir.DegreeV, ir.DegreeIV},
}

// ParseDegree validates a degree label. Labels are case-sensitive: "ii" and
// "II" are different chords.
func ParseDegree(s string) (ir.Degree, error) {
	d := ir.Degree(strings.TrimSpace(s))
	if _, ok := degreeOffsets[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDegree, s)
	}
	return d, nil
}

// ParseProgression parses a dash-separated template such as "I-V-vi-IV".
func ParseProgression(s string) (ir.Progression, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty progression", ErrUnknownDegree)
	}
	parts := strings.Split(s, "-")
	prog := make(ir.Progression, 0, len(parts))
	for _, part := range parts {
		d, err := ParseDegree(part)
		if err != nil {
			return nil, err
		}
		prog = append(prog, d)
	}
	return prog, nil
}

// ValidateProgression checks every label of an already-split progression.
func ValidateProgression(p ir.Progression) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty progression", ErrUnknownDegree)
	}
	for i, d := range p {
		if _, ok := degreeOffsets[d]; !ok {
			return fmt.Errorf("%w: %q at position %d", ErrUnknownDegree, string(d), i)
		}
	}
	return nil
}

// FormatProgression renders a progression as "I-V-vi-IV".
func FormatProgression(p ir.Progression) string {
	parts := make([]string, len(p))
	for i, d := range p {
		parts[i] = string(d)
	}
	return strings.Join(parts, "-")
}

// BaseTriad builds the degree's triad in the fixed base register:
// each tone is 48 + ((tonic + offset) mod 24).
func BaseTriad(d ir.Degree, tonic int) (ir.Triad, error) {
	offsets, ok := degreeOffsets[d]
	if !ok {
		return ir.Triad{}, fmt.Errorf("%w: %q", ErrUnknownDegree, string(d))
	}
	t := ir.Triad{Degree: d}
	for i, s := range offsets {
		t.PitchClasses[i] = (tonic + s) % 12
		t.Pitches[i] = BaseRegister + ir.Pitch((tonic+s)%24)
	}
	return t, nil
}

// CatalogTriads builds the base triad of every catalog degree, in order.
func CatalogTriads(tonic int) []ir.Triad {
	out := make([]ir.Triad, len(Degrees))
	for i, d := range Degrees {
		// Catalog degrees are always present in degreeOffsets.
		out[i], _ = BaseTriad(d, tonic)
	}
	return out
}
