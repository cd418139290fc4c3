package engine

import (
	"context"
	"crypto/sha256"
)

// Hasher turns a seed string into digest bytes. Implementations must be
// deterministic and return at least 16 bytes. Hash is the only call in a
// composition that may block, so it receives the caller's context.
type Hasher interface {
	Hash(ctx context.Context, seed string) ([]byte, error)
}

// SHA256Hasher hashes the UTF-8 bytes of the seed with SHA-256.
// Pinning this hasher (and the xoshiro128** step) is what keeps captured
// fixtures reproducible.
type SHA256Hasher struct{}

// Hash returns the 32-byte SHA-256 digest of seed.
func (SHA256Hasher) Hash(ctx context.Context, seed string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(seed))
	return sum[:], nil
}

// HasherFunc adapts a function to the Hasher interface.
type HasherFunc func(ctx context.Context, seed string) ([]byte, error)

// Hash calls f.
func (f HasherFunc) Hash(ctx context.Context, seed string) ([]byte, error) {
	return f(ctx, seed)
}
