package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/seedsong/internal/engine"
	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/store"
	"github.com/roach88/seedsong/internal/testutil"
)

// Harness is the scenario execution environment: a quiet composer and a
// fresh in-memory archive.
type Harness struct {
	composer *engine.Composer
	store    *store.Store
	runIDs   engine.RunIDGenerator
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Compose the request (an expected error code short-circuits here)
// 3. Archive the run and read it back
// 4. Check expectations and structural properties
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	runID := scenario.RunID
	h := &Harness{
		composer: engine.New(engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))),
		store:    st,
		runIDs:   testutil.NewFixedRunIDGenerator(nonEmpty(runID)...),
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	req, err := scenario.Request.ToRequest()
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}

	result := NewResult()
	comp, err := h.composer.Compose(ctx, req)
	if scenario.Expect.Error != "" {
		checkExpectedError(result, err, scenario.Expect.Error)
		return result, nil
	}
	if err != nil {
		result.AddError(fmt.Sprintf("compose failed: %v", err))
		return result, nil
	}

	result.Composition = comp
	result.CompositionID, err = ir.CompositionID(comp)
	if err != nil {
		return nil, err
	}

	if err := h.archive(ctx, req, comp, result.CompositionID); err != nil {
		result.AddError(err.Error())
	}
	for _, e := range CheckExpectations(comp, scenario.Expect) {
		result.AddError(e.Error())
	}
	for _, e := range CheckProperties(comp, req, scenario.Properties) {
		result.AddError(e.Error())
	}
	return result, nil
}

// archive writes the run and verifies the stored copy hashes to the same ID.
func (h *Harness) archive(ctx context.Context, req ir.Request, comp *ir.Composition, id string) error {
	run, err := store.NewRun(h.runIDs.Generate(), req, comp)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if _, err := h.store.WriteRun(ctx, run); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	stored, err := h.store.ReadRun(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if got := ir.MustCompositionID(stored.Composition); got != id {
		return mismatch("archive", id, got)
	}
	return nil
}

func checkExpectedError(result *Result, err error, code string) {
	if err == nil {
		result.AddError(fmt.Sprintf("expected error %s, compose succeeded", code))
		return
	}
	var ce *engine.ComposeError
	if !errors.As(err, &ce) {
		result.AddError(fmt.Sprintf("expected error %s, got %v", code, err))
		return
	}
	if string(ce.Code) != code {
		result.AddError(mismatch("error", code, ce.Code).Error())
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
