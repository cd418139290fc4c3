package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/seedsong/internal/engine"
	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database      string
	RunID         string // optional - specific run only
	Seed          string // optional - runs with this seed only
	EngineVersion string // optional - runs recorded by this engine version only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	Seq           int64  `json:"seq"`
	Seed          string `json:"seed"`
	StoredID      string `json:"stored_id"`
	ReplayedID    string `json:"replayed_id,omitempty"`
	EngineVersion string `json:"engine_version"`
	Deterministic bool   `json:"deterministic"`
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Recompose archived runs and verify determinism",
		Long: `Recompose every archived request and compare the regenerated
composition ID with the stored one.

A mismatch means the engine no longer produces the archived output for
that seed. Runs recorded under a different engine version are still
checked; the version is reported alongside each run.

Exit codes:
  0 - All runs reproduce
  1 - One or more runs differ
  2 - Command error (database not found, etc.)

Examples:
  seedsong replay --db ./seedsong.db
  seedsong replay --db ./seedsong.db --run 0190f3c2-...
  seedsong replay --db ./seedsong.db --seed alpha --engine-version 0.3.0
  seedsong replay --db ./seedsong.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $"+DatabaseEnv+")")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay a specific run only")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "replay runs with this seed only")
	cmd.Flags().StringVar(&opts.EngineVersion, "engine-version", "", "replay runs recorded by this engine version only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	if opts.Database == "" {
		opts.Database = getEnv(DatabaseEnv, "")
	}
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "--db or "+DatabaseEnv+" is required")
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		runs = []store.Run{run}
	} else {
		runs, err = st.QueryRuns(ctx, store.Where(map[string]string{
			store.FieldSeed:          opts.Seed,
			store.FieldEngineVersion: opts.EngineVersion,
		}))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read runs", err)
		}
	}

	if len(runs) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, ReplayResult{
				Runs:             []ReplayRunResult{},
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	composer := engine.New(engine.WithLogger(newLogger(opts.RootOptions, cmd)))
	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}
	for _, run := range runs {
		r := replayRun(cmd, composer, run)
		result.Runs = append(result.Runs, r)
		if !r.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayRun recomposes one archived request and compares composition IDs.
func replayRun(cmd *cobra.Command, composer *engine.Composer, run store.Run) ReplayRunResult {
	r := ReplayRunResult{
		RunID:         run.ID,
		Seq:           run.Seq,
		Seed:          run.Request.Seed,
		StoredID:      run.CompositionID,
		EngineVersion: run.EngineVersion,
	}

	comp, err := composer.Compose(cmd.Context(), run.Request)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	id, err := ir.CompositionID(comp)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.ReplayedID = id
	r.Deterministic = id == run.CompositionID
	return r
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Run %d: %s (seed %q)\n", status, run.Seq, run.RunID, run.Seed)

		switch {
		case run.Error != "":
			fmt.Fprintf(w, "  Error: %s\n", run.Error)
		case !run.Deterministic:
			fmt.Fprintf(w, "  Stored:   %s\n", run.StoredID)
			fmt.Fprintf(w, "  Replayed: %s\n", run.ReplayedID)
			if run.EngineVersion != ir.EngineVersion {
				fmt.Fprintf(w, "  Recorded by engine %s, current is %s\n", run.EngineVersion, ir.EngineVersion)
			}
		case verbose:
			fmt.Fprintf(w, "  Composition: %s\n", run.StoredID)
			fmt.Fprintf(w, "  Engine: %s\n", run.EngineVersion)
		}
	}

	fmt.Fprintln(w)
	if !result.AllDeterministic {
		fmt.Fprintln(w, "✗ Determinism verification FAILED")
		return NewExitError(ExitFailure, "determinism verification failed")
	}

	fmt.Fprintln(w, "✓ All runs deterministic")
	return nil
}
