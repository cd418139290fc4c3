// Package harness runs conformance scenarios against the composition engine.
//
// A scenario is a YAML file naming a request and the facts its composition
// must satisfy:
//
//	name: alpha
//	description: Regression fixture for the seed "alpha"
//	request:
//	  seed: alpha
//	  steps: 16
//	  steps_per_bar: 4
//	expect:
//	  key: C
//	  scale: major
//	  bars: 4
//	golden: true
//
// Run composes the request, checks the explicit expectations, then checks
// the structural properties every composition must have (lengths, register,
// rests, cadence, voice-leading optimality). Each run is also archived in an
// in-memory store and read back, so the stored composition ID must match the
// freshly computed one.
//
// RunWithGolden additionally compares the canonical composition JSON with
// testdata/golden/<name>.golden. Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness
