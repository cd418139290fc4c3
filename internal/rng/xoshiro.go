package rng

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
)

// LaneBytes is the number of digest bytes consumed by one stream.
const LaneBytes = 16

var (
	// ErrShortDigest is returned when fewer than LaneBytes bytes are
	// available at the requested offset.
	ErrShortDigest = errors.New("digest too short for rng state")

	// ErrDegenerateState is returned when all four lanes are zero.
	// Forcing each lane odd makes this unreachable; it is checked anyway.
	ErrDegenerateState = errors.New("rng state is all zero")
)

// Source emits uniformly distributed floats in [0, 1).
// Every generator in seedsong takes a Source so tests can script draws.
type Source interface {
	Float64() float64
}

// Xoshiro is a xoshiro128** stream.
type Xoshiro struct {
	s0, s1, s2, s3 uint32
	draws          int
}

// New builds a stream from digest[offset:offset+16].
func New(digest []byte, offset int) (*Xoshiro, error) {
	if offset < 0 || len(digest)-offset < LaneBytes {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrShortDigest, LaneBytes, offset, len(digest))
	}
	b := digest[offset:]
	x := &Xoshiro{
		s0: binary.LittleEndian.Uint32(b[0:4]) | 1,
		s1: binary.LittleEndian.Uint32(b[4:8]) | 1,
		s2: binary.LittleEndian.Uint32(b[8:12]) | 1,
		s3: binary.LittleEndian.Uint32(b[12:16]) | 1,
	}
	if x.s0|x.s1|x.s2|x.s3 == 0 {
		return nil, ErrDegenerateState
	}
	return x, nil
}

// Uint32 advances the stream and returns the next 32-bit output.
func (x *Xoshiro) Uint32() uint32 {
	result := bits.RotateLeft32(x.s1*5, 7) * 9
	t := x.s1 << 9

	x.s2 ^= x.s0
	x.s3 ^= x.s1
	x.s1 ^= x.s2
	x.s0 ^= x.s3
	x.s2 ^= t
	x.s3 = bits.RotateLeft32(x.s3, 11)

	x.draws++
	return result
}

// Float64 returns the next output scaled into [0, 1).
func (x *Xoshiro) Float64() float64 {
	return float64(x.Uint32()) / 4294967296.0
}

// Draws returns how many values have been taken from the stream.
func (x *Xoshiro) Draws() int {
	return x.draws
}

// Intn returns a uniform index in [0, n) using floor(Float64()*n).
// n must be positive.
func Intn(src Source, n int) int {
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Chance reports whether the next draw falls below p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Sign returns +1 or -1 with equal probability.
func Sign(src Source) int {
	if src.Float64() < 0.5 {
		return 1
	}
	return -1
}
