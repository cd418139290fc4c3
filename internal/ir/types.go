package ir

import (
	"encoding/json"
	"fmt"
)

// Pitch is a semitone index where 60 is middle C.
// Rest marks a silent step.
type Pitch int

// Rest is the silent-step marker in melody and harmony voices.
const Rest Pitch = -1

// Register bounds every melody and harmony pitch is folded into.
const (
	MinPitch Pitch = 48
	MaxPitch Pitch = 84
)

// IsRest reports whether p marks a silent step.
func (p Pitch) IsRest() bool { return p == Rest }

// PitchClass returns p modulo 12. It must not be called on a rest.
func (p Pitch) PitchClass() int {
	return ((int(p) % 12) + 12) % 12
}

// MarshalJSON encodes a rest as null.
func (p Pitch) MarshalJSON() ([]byte, error) {
	if p.IsRest() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%d", int(p))), nil
}

// UnmarshalJSON decodes null as a rest.
func (p *Pitch) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Rest
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("pitch: %w", err)
	}
	*p = Pitch(n)
	return nil
}

// Scale names one of the two supported scale variants.
type Scale string

const (
	ScaleMajor Scale = "major"
	ScaleMinor Scale = "minor"
)

// Tonic is a natural letter name ("C" through "B").
type Tonic string

// Key pairs a tonic with a scale variant.
type Key struct {
	Tonic Tonic `json:"tonic"`
	Scale Scale `json:"scale"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s", k.Tonic, k.Scale)
}

// Degree is a scale-relative chord label.
type Degree string

const (
	DegreeI   Degree = "I"
	DegreeII  Degree = "ii"
	DegreeIII Degree = "iii"
	DegreeIV  Degree = "IV"
	DegreeV   Degree = "V"
	DegreeVI  Degree = "vi"
)

// Progression is a cyclic sequence of degrees, reused modulo its length per bar.
type Progression []Degree

// At returns the degree for the given bar index.
func (p Progression) At(bar int) Degree {
	return p[bar%len(p)]
}

// Triad is a concrete three-note chord.
type Triad struct {
	Degree       Degree   `json:"degree"`
	PitchClasses [3]int   `json:"pitch_classes"`
	Pitches      [3]Pitch `json:"pitches"`
}

// Contains reports whether pc is one of the triad's pitch classes.
func (t Triad) Contains(pc int) bool {
	for _, c := range t.PitchClasses {
		if c == pc {
			return true
		}
	}
	return false
}

// Root returns the pitch class of the triad's first tone.
func (t Triad) Root() int {
	return t.PitchClasses[0]
}

// Request is everything the engine needs to compose. Key, Scale and
// Progression are optional overrides; zero values mean "derive from seed".
type Request struct {
	Seed        string      `json:"seed"`
	Notes       []string    `json:"notes,omitempty"`
	Key         Tonic       `json:"key,omitempty"`
	Scale       Scale       `json:"scale,omitempty"`
	Progression Progression `json:"progression,omitempty"`
	Steps       int         `json:"steps"`
	StepsPerBar int         `json:"steps_per_bar"`
}

// Arrangement holds accompaniment figures derived from the final chords.
type Arrangement struct {
	Style  string    `json:"style"`
	Bass   [][]Pitch `json:"bass"`
	Figure [][]Pitch `json:"figure"`
}

// Composition is the complete, immutable result of one Compose call.
type Composition struct {
	Seed        string      `json:"seed"`
	Key         Tonic       `json:"key"`
	Scale       Scale       `json:"scale"`
	Progression Progression `json:"progression"`
	StepsPerBar int         `json:"steps_per_bar"`
	Melody      []Pitch     `json:"melody"`
	Harmony     []Pitch     `json:"harmony"`
	Chords      []Triad     `json:"chords"`
	Arrangement Arrangement `json:"arrangement"`
}

// ChordsPerBar returns the voiced pitches of each bar's chord.
func (c *Composition) ChordsPerBar() [][3]Pitch {
	out := make([][3]Pitch, len(c.Chords))
	for i, t := range c.Chords {
		out[i] = t.Pitches
	}
	return out
}

// Bars returns the number of bars in the composition.
func (c *Composition) Bars() int {
	return len(c.Chords)
}
