package store

import "github.com/roach88/seedsong/internal/ir"

// Run is one archived composition.
type Run struct {
	// ID is the run identifier (UUIDv7 in production).
	ID string

	// Seq orders runs by insertion. Assigned by WriteRun.
	Seq int64

	Request     ir.Request
	RequestHash string

	Composition   *ir.Composition
	CompositionID string

	EngineVersion   string
	DocumentVersion string
}

// RunSummary is the listing form of a run, without decoded payloads.
type RunSummary struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	Seed          string `json:"seed"`
	CompositionID string `json:"composition_id"`
	EngineVersion string `json:"engine_version"`
}

// NewRun builds a run record for an archived composition, computing its
// request hash and composition ID.
func NewRun(id string, req ir.Request, c *ir.Composition) (Run, error) {
	reqHash, err := ir.RequestHash(req)
	if err != nil {
		return Run{}, err
	}
	compID, err := ir.CompositionID(c)
	if err != nil {
		return Run{}, err
	}
	return Run{
		ID:              id,
		Request:         req,
		RequestHash:     reqHash,
		Composition:     c,
		CompositionID:   compID,
		EngineVersion:   ir.EngineVersion,
		DocumentVersion: ir.DocumentVersion,
	}, nil
}
