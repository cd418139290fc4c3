package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a future algorithm migration.
const (
	DomainComposition = "seedsong/composition/v1"
	DomainRequest     = "seedsong/request/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CompositionID computes the content-addressed ID of a composition.
// Identical compositions always share an ID, so the ID doubles as a
// determinism witness when a stored request is regenerated.
func CompositionID(c *Composition) (string, error) {
	canonical, err := MarshalCanonical(c.Object())
	if err != nil {
		return "", fmt.Errorf("CompositionID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainComposition, canonical), nil
}

// RequestHash computes the content hash of a request.
func RequestHash(r Request) (string, error) {
	canonical, err := MarshalCanonical(r.Object())
	if err != nil {
		return "", fmt.Errorf("RequestHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRequest, canonical), nil
}

// MustCompositionID is like CompositionID but panics on error.
// Use only in tests or when the composition came from the engine.
func MustCompositionID(c *Composition) string {
	id, err := CompositionID(c)
	if err != nil {
		panic(err)
	}
	return id
}
