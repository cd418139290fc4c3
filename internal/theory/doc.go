// Package theory holds the fixed musical tables seedsong composes from:
// scale steps, natural-letter tonics, the degree-to-triad map and the
// progression catalog, plus the small pitch arithmetic shared by the
// generators (octave folding, circular distance, diatonic thirds).
//
// It also parses note names and quantizes arbitrary pitches onto a scale.
package theory
