package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/seedsong/internal/arrange"
	"github.com/roach88/seedsong/internal/harmonize"
	"github.com/roach88/seedsong/internal/harmony"
	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/melody"
	"github.com/roach88/seedsong/internal/rng"
	"github.com/roach88/seedsong/internal/theory"
	"github.com/roach88/seedsong/internal/voicing"
)

// NoteSeparator joins a note list into a fallback seed.
const NoteSeparator = ","

// arrangementOffset is where the accompaniment stream reads its lanes.
const arrangementOffset = rng.LaneBytes

// Composer turns requests into compositions.
//
// A Composer holds no per-call state: every Compose call hashes its own seed
// and builds its own rng, so one Composer may be shared across goroutines.
type Composer struct {
	hasher  Hasher
	catalog []ir.Progression
	logger  *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithHasher replaces the default SHA-256 seed hasher.
func WithHasher(h Hasher) Option {
	return func(c *Composer) {
		c.hasher = h
	}
}

// WithCatalog replaces the progression catalog drawn from when no
// progression override is given.
func WithCatalog(catalog []ir.Progression) Option {
	return func(c *Composer) {
		c.catalog = catalog
	}
}

// WithLogger sets the logger used for stage records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = l
	}
}

// New creates a Composer using SHA-256 and the built-in progression catalog.
func New(opts ...Option) *Composer {
	c := &Composer{
		hasher:  SHA256Hasher{},
		catalog: theory.Progressions,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose runs the full pipeline for one request:
//
//	seed -> digest -> rng -> {key, scale, progression} -> melody
//	     -> per-bar chords -> voice leading -> harmonization
//
// Draw order on the primary stream is parameters, melody, then the
// harmonizer's weak-step draws. The accompaniment style comes from a
// separate stream so it never shifts the primary draws.
//
// Request validation happens before hashing; on any error no composition
// is returned.
func (c *Composer) Compose(ctx context.Context, req ir.Request) (*ir.Composition, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	seed := ResolveSeed(req)
	digest, err := c.hasher.Hash(ctx, seed)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, invalidSeed("seed hashing failed", err)
	}
	src, err := newSource(digest, 0)
	if err != nil {
		return nil, err
	}
	// Hashing is the only suspension point; honour cancellation that arrived
	// during it, then run to completion.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params, err := SelectParameters(src, req, c.catalog)
	if err != nil {
		return nil, invalidParameter("progression", err)
	}
	c.logger.Debug("parameters selected",
		"key", params.Key.String(),
		"progression", theory.FormatProgression(params.Progression),
		"draws", src.Draws(),
	)

	line, err := melody.Generate(src, req.Steps, params.Key)
	if err != nil {
		return nil, invalidParameter("key", err)
	}
	c.logger.Debug("melody generated", "steps", len(line), "draws", src.Draws())

	chooser, err := harmony.NewChooser(params.Key)
	if err != nil {
		return nil, invalidParameter("key", err)
	}
	chords, err := chooser.ChooseAll(line, req.StepsPerBar, params.Progression)
	if err != nil {
		return nil, invalidParameter("progression", err)
	}
	c.logger.Debug("chords chosen", "bars", len(chords), "degrees", degreeList(chords))

	chords = voicing.Lead(chords)
	c.logger.Debug("voicing complete", "bars", len(chords))

	result, err := harmonize.Harmonize(src, line, chords, req.StepsPerBar, params.Key)
	if err != nil {
		return nil, invalidParameter("steps_per_bar", err)
	}

	accomp, err := arrangementSource(digest)
	if err != nil {
		return nil, err
	}

	arrangement, err := arrange.Arrange(chords, accomp)
	if err != nil {
		return nil, fmt.Errorf("arrangement: %w", err)
	}

	comp := &ir.Composition{
		Seed:        seed,
		Key:         params.Key.Tonic,
		Scale:       params.Key.Scale,
		Progression: params.Progression,
		StepsPerBar: req.StepsPerBar,
		Melody:      result.Melody,
		Harmony:     result.Harmony,
		Chords:      chords,
		Arrangement: arrangement,
	}

	id, err := ir.CompositionID(comp)
	if err != nil {
		return nil, fmt.Errorf("composition id: %w", err)
	}
	c.logger.Info("composition complete",
		"key", comp.Key,
		"scale", comp.Scale,
		"steps", len(comp.Melody),
		"bars", comp.Bars(),
		"id", id,
	)
	return comp, nil
}

// validate rejects malformed requests before any rng draw.
func (c *Composer) validate(req ir.Request) error {
	if ResolveSeed(req) == "" {
		return invalidSeed("seed is empty and no notes were given", nil)
	}
	if req.StepsPerBar <= 0 {
		return &ComposeError{
			Code:    ErrCodeInvalidParameter,
			Message: fmt.Sprintf("steps per bar must be positive, got %d", req.StepsPerBar),
			Field:   "steps_per_bar",
		}
	}
	if req.Key != "" {
		if _, err := theory.TonicClass(req.Key); err != nil {
			return invalidParameter("key", err)
		}
	}
	if req.Scale != "" {
		if _, err := theory.Steps(req.Scale); err != nil {
			return invalidParameter("scale", err)
		}
	}
	if len(req.Progression) > 0 {
		if err := theory.ValidateProgression(req.Progression); err != nil {
			return invalidParameter("progression", err)
		}
		return nil
	}
	if len(c.catalog) == 0 {
		return invalidParameter("progression", ErrEmptyCatalog)
	}
	for i, p := range c.catalog {
		if err := theory.ValidateProgression(p); err != nil {
			return &ComposeError{
				Code:    ErrCodeInvalidParameter,
				Message: "invalid progression catalog entry",
				Field:   "progression",
				Details: map[string]string{"index": fmt.Sprintf("%d", i)},
				Err:     err,
			}
		}
	}
	return nil
}

// ResolveSeed returns the seed to hash: the request seed, or the note list
// joined with NoteSeparator when the seed is empty.
func ResolveSeed(req ir.Request) string {
	if req.Seed == "" && len(req.Notes) > 0 {
		return strings.Join(req.Notes, NoteSeparator)
	}
	return req.Seed
}

func newSource(digest []byte, offset int) (*rng.Xoshiro, error) {
	src, err := rng.New(digest, offset)
	switch {
	case err == nil:
		return src, nil
	case errors.Is(err, rng.ErrShortDigest):
		return nil, invalidSeed(fmt.Sprintf("digest has %d bytes, need at least %d", len(digest), rng.LaneBytes), err)
	case errors.Is(err, rng.ErrDegenerateState):
		return nil, &ComposeError{
			Code:    ErrCodeDegenerateState,
			Message: "rng lanes are all zero",
			Err:     err,
		}
	default:
		return nil, err
	}
}

// arrangementSource builds the accompaniment stream from the second half
// of the digest. Digests too short for a second lane set are re-hashed.
func arrangementSource(digest []byte) (*rng.Xoshiro, error) {
	if len(digest) >= arrangementOffset+rng.LaneBytes {
		return newSource(digest, arrangementOffset)
	}
	sum := sha256.Sum256(digest)
	return newSource(sum[:], 0)
}

func degreeList(chords []ir.Triad) string {
	labels := make([]string, len(chords))
	for i, t := range chords {
		labels[i] = string(t.Degree)
	}
	return strings.Join(labels, "-")
}
