package engine

import (
	"context"
	"errors"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/roach88/seedsong/internal/ir"
)

// MaxAvalanchePositions bounds how many seed positions are mutated.
const MaxAvalanchePositions = 64

// ErrEmptySeed is returned by Avalanche when there is nothing to mutate.
var ErrEmptySeed = errors.New("avalanche needs a non-empty seed")

// AvalancheReport summarizes how a seed's output reacts to one-character edits.
type AvalancheReport struct {
	Seed      string  `json:"seed"`
	Mutations int     `json:"mutations"`
	Changed   int     `json:"changed"`
	Fraction  float64 `json:"fraction"`

	// MeanMelodyDistance is the mean fraction of melody positions that differ
	// between the base and each mutated seed.
	MeanMelodyDistance float64 `json:"mean_melody_distance"`
}

// Avalanche composes req, then each single-character mutation of req.Seed,
// and counts mutations that change the key, scale or progression, or alter
// more than half of the melody positions. Overrides in req apply to every
// run, so callers measuring parameter sensitivity should leave them empty.
func (c *Composer) Avalanche(ctx context.Context, req ir.Request) (AvalancheReport, error) {
	seed := []rune(req.Seed)
	if len(seed) == 0 {
		return AvalancheReport{}, ErrEmptySeed
	}

	base, err := c.Compose(ctx, req)
	if err != nil {
		return AvalancheReport{}, err
	}

	report := AvalancheReport{Seed: req.Seed}
	var distances []float64
	for _, pos := range samplePositions(len(seed), MaxAvalanchePositions) {
		mutated := slices.Clone(seed)
		mutated[pos] = nextPrintable(mutated[pos])

		variant := req
		variant.Seed = string(mutated)
		comp, err := c.Compose(ctx, variant)
		if err != nil {
			return AvalancheReport{}, err
		}

		d := MelodyDistance(base.Melody, comp.Melody)
		distances = append(distances, d)
		report.Mutations++
		if ParametersDiffer(base, comp) || d > 0.5 {
			report.Changed++
		}
	}

	report.Fraction = float64(report.Changed) / float64(report.Mutations)
	report.MeanMelodyDistance = stat.Mean(distances, nil)
	return report, nil
}

// ParametersDiffer reports whether two compositions derived different keys,
// scales or progressions.
func ParametersDiffer(a, b *ir.Composition) bool {
	return a.Key != b.Key || a.Scale != b.Scale || !slices.Equal(a.Progression, b.Progression)
}

// MelodyDistance is the fraction of positions at which two melodies differ.
// Length differences count as differing positions.
func MelodyDistance(a, b []ir.Pitch) float64 {
	n := max(len(a), len(b))
	if n == 0 {
		return 0
	}
	diff := 0
	for i := 0; i < n; i++ {
		if i >= len(a) || i >= len(b) || a[i] != b[i] {
			diff++
		}
	}
	return float64(diff) / float64(n)
}

// samplePositions spreads up to limit positions evenly across n.
func samplePositions(n, limit int) []int {
	if n <= limit {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, limit)
	for i := range out {
		out[i] = i * n / limit
	}
	return out
}

// nextPrintable returns the next printable ASCII character, wrapping '~'
// and anything outside the printable range to '!'.
func nextPrintable(r rune) rune {
	if r >= ' ' && r < '~' {
		return r + 1
	}
	return '!'
}
