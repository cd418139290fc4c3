// Package ir defines the data model shared by every seedsong package.
//
// This package contains types and their canonical encoding only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key constraints:
//   - Pitches are integer semitone indices (60 = middle C); Rest is the only
//     non-sounding value and encodes as JSON null
//   - Compositions are immutable once returned by the engine
//   - Canonical JSON (RFC 8785) is the only encoding used for identity
//   - No float types in any persisted document
package ir
