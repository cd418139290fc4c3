// Package rng provides the deterministic pseudo-random stream every
// composition draws from.
//
// The generator is xoshiro128** seeded from 16 digest bytes read as four
// little-endian 32-bit lanes, each forced odd. The exact step and constants
// are pinned so previously captured seeds reproduce byte-for-byte.
//
// Streams are not safe for concurrent use. Each Compose call builds its own.
package rng
