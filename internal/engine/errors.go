package engine

import (
	"errors"
	"fmt"
)

// ComposeError is returned for every rejected composition request.
//
// There is no partial result: when Compose returns a ComposeError it
// returns no composition.
type ComposeError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending request field, if any.
	Field string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes compose errors.
type ErrorCode string

const (
	// ErrCodeInvalidSeed indicates hashing failed or returned too few bytes.
	ErrCodeInvalidSeed ErrorCode = "INVALID_SEED"

	// ErrCodeInvalidParameter indicates a malformed request field. These are
	// detected before any rng draw.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// ErrCodeDegenerateState indicates an all-zero rng state.
	ErrCodeDegenerateState ErrorCode = "DEGENERATE_RNG_STATE"
)

// Error implements the error interface.
func (e *ComposeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *ComposeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ce *ComposeError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsInvalidSeed returns true if err is an INVALID_SEED error.
func IsInvalidSeed(err error) bool { return hasCode(err, ErrCodeInvalidSeed) }

// IsInvalidParameter returns true if err is an INVALID_PARAMETER error.
func IsInvalidParameter(err error) bool { return hasCode(err, ErrCodeInvalidParameter) }

// IsDegenerateState returns true if err is a DEGENERATE_RNG_STATE error.
func IsDegenerateState(err error) bool { return hasCode(err, ErrCodeDegenerateState) }

func invalidParameter(field string, err error) *ComposeError {
	return &ComposeError{
		Code:    ErrCodeInvalidParameter,
		Message: "invalid request parameter",
		Field:   field,
		Err:     err,
	}
}

func invalidSeed(message string, err error) *ComposeError {
	return &ComposeError{
		Code:    ErrCodeInvalidSeed,
		Message: message,
		Field:   "seed",
		Err:     err,
	}
}
