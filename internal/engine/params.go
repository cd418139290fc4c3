package engine

import (
	"errors"
	"slices"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/rng"
	"github.com/roach88/seedsong/internal/theory"
)

// MinorChance is the probability a seed-derived scale is minor.
const MinorChance = 0.35

// ErrEmptyCatalog is returned when a progression catalog has no entries.
var ErrEmptyCatalog = errors.New("progression catalog is empty")

// Parameters are the seed-derived (or overridden) musical settings.
type Parameters struct {
	Key         ir.Key
	Progression ir.Progression
}

// PickKey draws one of the seven natural-letter tonics uniformly.
func PickKey(src rng.Source) ir.Tonic {
	return theory.Tonics[rng.Intn(src, len(theory.Tonics))]
}

// PickScale draws minor with probability MinorChance, else major.
func PickScale(src rng.Source) ir.Scale {
	if rng.Chance(src, MinorChance) {
		return ir.ScaleMinor
	}
	return ir.ScaleMajor
}

// PickProgression draws a template uniformly from catalog.
func PickProgression(src rng.Source, catalog []ir.Progression) (ir.Progression, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	return slices.Clone(catalog[rng.Intn(src, len(catalog))]), nil
}

// SelectParameters resolves key, scale and progression in that order.
// An override skips its draw entirely, so later draws shift relative to a
// run without overrides.
func SelectParameters(src rng.Source, req ir.Request, catalog []ir.Progression) (Parameters, error) {
	var p Parameters

	p.Key.Tonic = req.Key
	if p.Key.Tonic == "" {
		p.Key.Tonic = PickKey(src)
	}

	p.Key.Scale = req.Scale
	if p.Key.Scale == "" {
		p.Key.Scale = PickScale(src)
	}

	if len(req.Progression) > 0 {
		p.Progression = slices.Clone(req.Progression)
		return p, nil
	}
	prog, err := PickProgression(src, catalog)
	if err != nil {
		return Parameters{}, err
	}
	p.Progression = prog
	return p, nil
}
