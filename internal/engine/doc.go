// Package engine composes music from seeds.
//
// A Composer hashes the seed, builds a deterministic rng from the digest and
// runs the pipeline stages in a fixed order:
//
//  1. SelectParameters: key, scale and progression (each overridable)
//  2. melody.Generate: motif-based lead line with rests
//  3. harmony.Chooser: one triad per bar with a final V-I cadence
//  4. voicing.Lead: octave placement minimizing motion between bars
//  5. harmonize.Harmonize: strong-beat correction and a diatonic third voice
//  6. arrange.Arrange: bass and keyboard figures, styled from a second stream
//
// DETERMINISM:
// The same seed and request always produce the same composition. There is
// no package-level mutable state and every call builds its own rng, so
// Compose is safe for concurrent use.
//
// ERRORS:
// Every rejected request yields a *ComposeError with one of the codes
// INVALID_SEED, INVALID_PARAMETER or DEGENERATE_RNG_STATE. Malformed
// parameters are rejected before the first draw.
package engine
