package harness

import "github.com/roach88/seedsong/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Composition is the engine output, nil when Compose failed.
	Composition *ir.Composition `json:"composition,omitempty"`

	// CompositionID is the content-addressed ID of Composition.
	CompositionID string `json:"composition_id,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
