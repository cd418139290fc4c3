package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/melody"
	"github.com/roach88/seedsong/internal/theory"
	"github.com/roach88/seedsong/internal/voicing"
)

// AssertionError is returned when an expectation or property fails.
type AssertionError struct {
	Type     string // Expectation or property name
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

func mismatch(typ string, expected, actual any) *AssertionError {
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
	}
}

// CheckExpectations compares c against every set field of expect.
func CheckExpectations(c *ir.Composition, expect ExpectClause) []error {
	var errs []error
	check := func(typ string, ok bool, expected, actual any) {
		if !ok {
			errs = append(errs, mismatch(typ, expected, actual))
		}
	}

	if expect.Key != "" {
		check("key", string(c.Key) == expect.Key, expect.Key, c.Key)
	}
	if expect.Scale != "" {
		check("scale", string(c.Scale) == expect.Scale, expect.Scale, c.Scale)
	}
	if expect.Progression != "" {
		got := theory.FormatProgression(c.Progression)
		check("progression", got == expect.Progression, expect.Progression, got)
	}
	if expect.Steps != 0 {
		check("steps", len(c.Melody) == expect.Steps, expect.Steps, len(c.Melody))
	}
	if expect.Bars != 0 {
		check("bars", c.Bars() == expect.Bars, expect.Bars, c.Bars())
	}
	if expect.Style != "" {
		check("style", c.Arrangement.Style == expect.Style, expect.Style, c.Arrangement.Style)
	}
	if len(expect.Degrees) > 0 {
		got := make([]string, len(c.Chords))
		for i, t := range c.Chords {
			got[i] = string(t.Degree)
		}
		check("degrees", slices.Equal(got, expect.Degrees), expect.Degrees, got)
	}
	if expect.Melody != nil {
		want := fromNullable(expect.Melody)
		check("melody", slices.Equal(c.Melody, want), formatPitches(want), formatPitches(c.Melody))
	}
	if expect.Harmony != nil {
		want := fromNullable(expect.Harmony)
		check("harmony", slices.Equal(c.Harmony, want), formatPitches(want), formatPitches(c.Harmony))
	}
	if expect.Chords != nil {
		got := make([][]int, len(c.Chords))
		for i, t := range c.Chords {
			got[i] = []int{int(t.Pitches[0]), int(t.Pitches[1]), int(t.Pitches[2])}
		}
		check("chords", slices.EqualFunc(got, expect.Chords, slices.Equal[[]int]), expect.Chords, got)
	}
	return errs
}

// CheckProperties evaluates the named structural properties.
// An empty list evaluates all of them.
func CheckProperties(c *ir.Composition, req ir.Request, props []string) []error {
	if len(props) == 0 {
		props = AllProperties
	}

	var errs []error
	for _, p := range props {
		var err error
		switch p {
		case PropLengths:
			err = CheckLengths(c, req)
		case PropRange:
			err = CheckRange(c)
		case PropRests:
			err = CheckRests(c)
		case PropCadence:
			err = CheckCadence(c)
		case PropVoiceLeading:
			err = CheckVoiceLeading(c)
		default:
			err = fmt.Errorf("unknown property %q", p)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// CheckLengths verifies melody/harmony length equals the clamped step
// count and that there is one chord per bar.
func CheckLengths(c *ir.Composition, req ir.Request) error {
	want := melody.ClampSteps(req.Steps)
	if len(c.Melody) != want {
		return mismatch(PropLengths, fmt.Sprintf("%d melody steps", want), len(c.Melody))
	}
	if len(c.Harmony) != len(c.Melody) {
		return mismatch(PropLengths, fmt.Sprintf("%d harmony steps", len(c.Melody)), len(c.Harmony))
	}
	bars := (len(c.Melody) + c.StepsPerBar - 1) / c.StepsPerBar
	if len(c.Chords) != bars {
		return mismatch(PropLengths, fmt.Sprintf("%d chords", bars), len(c.Chords))
	}
	return nil
}

// CheckRange verifies every sounding pitch lies in the shared register.
func CheckRange(c *ir.Composition) error {
	inRange := func(p ir.Pitch) bool {
		return p.IsRest() || (p >= ir.MinPitch && p <= ir.MaxPitch)
	}
	for i, p := range c.Melody {
		if !inRange(p) {
			return mismatch(PropRange, "melody within [48,84]", fmt.Sprintf("melody[%d]=%d", i, p))
		}
	}
	for i, p := range c.Harmony {
		if !inRange(p) {
			return mismatch(PropRange, "harmony within [48,84]", fmt.Sprintf("harmony[%d]=%d", i, p))
		}
	}
	for b, t := range c.Chords {
		if !voicing.Voicing(t.Pitches).InRange() {
			return mismatch(PropRange, "chords within [48,84]", fmt.Sprintf("bar %d=%v", b, t.Pitches))
		}
	}
	return nil
}

// CheckRests verifies that every melody rest has a rest in the harmony.
func CheckRests(c *ir.Composition) error {
	for i, p := range c.Melody {
		if p.IsRest() && !c.Harmony[i].IsRest() {
			return mismatch(PropRests, fmt.Sprintf("harmony[%d]=null", i), c.Harmony[i])
		}
	}
	return nil
}

// CheckCadence verifies the final V-I for compositions of two or more bars.
func CheckCadence(c *ir.Composition) error {
	bars := len(c.Chords)
	if bars < 2 {
		return nil
	}
	tonic, err := theory.TonicClass(c.Key)
	if err != nil {
		return err
	}
	home, _ := theory.BaseTriad(ir.DegreeI, tonic)
	dominant, _ := theory.BaseTriad(ir.DegreeV, tonic)

	if got := c.Chords[bars-2].PitchClasses; got != dominant.PitchClasses {
		return mismatch(PropCadence, fmt.Sprintf("penultimate %v", dominant.PitchClasses), got)
	}
	if got := c.Chords[bars-1].PitchClasses; got != home.PitchClasses {
		return mismatch(PropCadence, fmt.Sprintf("final %v", home.PitchClasses), got)
	}
	return nil
}

// CheckVoiceLeading recomputes every in-register voicing of each bar after
// the first and verifies none beats the chosen one. Out-of-register
// candidates are excluded: the register bound takes precedence over cost.
func CheckVoiceLeading(c *ir.Composition) error {
	tonic, err := theory.TonicClass(c.Key)
	if err != nil {
		return err
	}
	for b := 1; b < len(c.Chords); b++ {
		prev := voicing.Voicing(c.Chords[b-1].Pitches)
		got := voicing.Voicing(c.Chords[b].Pitches)
		base, err := theory.BaseTriad(c.Chords[b].Degree, tonic)
		if err != nil {
			return err
		}

		gotCost := voicing.Cost(got, prev)
		for _, cand := range voicing.Candidates(voicing.Voicing(base.Pitches)) {
			if cand.InRange() && voicing.Cost(cand, prev) < gotCost-1e-9 {
				return mismatch(PropVoiceLeading,
					fmt.Sprintf("bar %d cost <= %.3f", b, voicing.Cost(cand, prev)),
					fmt.Sprintf("%v cost %.3f", got, gotCost))
			}
		}
	}
	return nil
}

func fromNullable(in []*int) []ir.Pitch {
	out := make([]ir.Pitch, len(in))
	for i, p := range in {
		if p == nil {
			out[i] = ir.Rest
			continue
		}
		out[i] = ir.Pitch(*p)
	}
	return out
}

func formatPitches(ps []ir.Pitch) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		if p.IsRest() {
			parts[i] = "null"
			continue
		}
		parts[i] = fmt.Sprintf("%d", int(p))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
