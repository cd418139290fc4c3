package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run and returns the seq assigned to it.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: rewriting an existing run
// leaves the stored row untouched and returns its original seq.
//
// The request and composition are serialized to canonical JSON per RFC 8785
// so a stored row can be compared byte-for-byte with a regenerated one.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: empty run id")
	}
	if run.Composition == nil {
		return 0, fmt.Errorf("write run %s: nil composition", run.ID)
	}

	reqJSON, err := marshalRequest(run.Request)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}
	compJSON, err := marshalComposition(run.Composition)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, seed, request, request_hash, composition, composition_id, engine_version, document_version)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ?, ?
		FROM runs
		WHERE true
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Composition.Seed,
		reqJSON,
		run.RequestHash,
		compJSON,
		run.CompositionID,
		run.EngineVersion,
		run.DocumentVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run %s: read seq: %w", run.ID, err)
	}
	return seq, nil
}
