package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/seedsong/internal/ir"
)

// marshalRequest converts a request to canonical JSON TEXT for storage.
func marshalRequest(req ir.Request) (string, error) {
	data, err := ir.MarshalCanonical(req.Object())
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	return string(data), nil
}

// marshalComposition converts a composition to canonical JSON TEXT for storage.
func marshalComposition(c *ir.Composition) (string, error) {
	data, err := ir.MarshalCanonical(c.Object())
	if err != nil {
		return "", fmt.Errorf("marshal composition: %w", err)
	}
	return string(data), nil
}

// unmarshalRequest parses canonical JSON TEXT to a request.
func unmarshalRequest(data string) (ir.Request, error) {
	var req ir.Request
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return ir.Request{}, fmt.Errorf("unmarshal request: %w", err)
	}
	return req, nil
}

// unmarshalComposition parses canonical JSON TEXT to a composition.
// Rests round-trip through null via ir.Pitch.UnmarshalJSON.
func unmarshalComposition(data string) (*ir.Composition, error) {
	var c ir.Composition
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("unmarshal composition: %w", err)
	}
	return &c, nil
}
