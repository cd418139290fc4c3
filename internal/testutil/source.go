package testutil

import (
	"fmt"
	"sync"
)

// ScriptedSource replays a fixed sequence of draws.
//
// Generators take an rng.Source, so a ScriptedSource lets a test decide each
// branch directly: 0.0 takes every "with probability p" branch, 0.99 skips it.
//
// Float64 panics when the script is exhausted, which means the code under
// test drew more often than the test expected.
//
// Thread-safety: ScriptedSource is safe for concurrent use via internal mutex.
type ScriptedSource struct {
	mu     sync.Mutex
	values []float64
	idx    int
}

// NewScriptedSource creates a source returning values in order.
func NewScriptedSource(values ...float64) *ScriptedSource {
	return &ScriptedSource{values: values}
}

// Float64 returns the next scripted value.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.values) {
		panic(fmt.Sprintf("ScriptedSource: script exhausted after %d draws", s.idx))
	}
	v := s.values[s.idx]
	s.idx++
	return v
}

// Draws returns the number of values consumed so far.
func (s *ScriptedSource) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

// Remaining returns the number of unconsumed values.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.idx
}

// ConstantSource returns the same value forever.
type ConstantSource float64

// Float64 returns c.
func (c ConstantSource) Float64() float64 {
	return float64(c)
}
