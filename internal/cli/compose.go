package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/seedsong/internal/engine"
	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/store"
	"github.com/roach88/seedsong/internal/theory"
)

// ComposeOptions holds flags for the compose command.
type ComposeOptions struct {
	*RootOptions
	Seed        string
	Notes       string
	Key         string
	Scale       string
	Progression string
	Steps       int
	StepsPerBar int
	Preset      string // dir:name
	Database    string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// ComposeResult is the compose command's output payload.
type ComposeResult struct {
	CompositionID string          `json:"composition_id"`
	RunID         string          `json:"run_id,omitempty"`
	Seq           int64           `json:"seq,omitempty"`
	Composition   *ir.Composition `json:"composition"`
}

// NewComposeCommand creates the compose command.
func NewComposeCommand(rootOpts *RootOptions) *cobra.Command {
	return newComposeCommand(&ComposeOptions{RootOptions: rootOpts})
}

func newComposeCommand(opts *ComposeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a piece from a seed",
		Long: `Derive key, progression, melody, harmony and voiced chords from a seed.

Key, scale and progression are normally drawn from the seed; any of them
can be pinned with a flag. A request can also come from a CUE preset,
with flags overriding the preset's fields.

With --db (or ` + DatabaseEnv + `) the composition is archived so that
"seedsong replay" can verify it later.

Examples:
  seedsong compose --seed alpha --steps 16 --steps-per-bar 4
  seedsong compose --notes C4,E4,G4 --key D --scale minor
  seedsong compose --preset ./presets:lullaby --format json
  seedsong compose --seed alpha --db ./seedsong.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed string")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "comma separated note names, also the seed when --seed is empty")
	cmd.Flags().StringVar(&opts.Key, "key", "", "tonic letter override (C D E F G A B)")
	cmd.Flags().StringVar(&opts.Scale, "scale", "", "scale override (major|minor)")
	cmd.Flags().StringVar(&opts.Progression, "prog", "", "progression override, e.g. I-vi-IV-V")
	cmd.Flags().IntVar(&opts.Steps, "steps", ir.DefaultSteps, "melody length in steps")
	cmd.Flags().IntVar(&opts.StepsPerBar, "steps-per-bar", ir.DefaultStepsPerBar, "steps per bar")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "preset reference dir:name")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive to this SQLite database (default $"+DatabaseEnv+")")

	return cmd
}

func runCompose(opts *ComposeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	req, err := buildRequest(opts, cmd)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Detail(), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeBadRequest, err.Error(), nil)
	}

	composer := engine.New(engine.WithLogger(newLogger(opts.RootOptions, cmd)))
	comp, err := composer.Compose(cmd.Context(), req)
	if err != nil {
		var composeErr *engine.ComposeError
		if errors.As(err, &composeErr) {
			var details any
			if len(composeErr.Details) > 0 {
				details = composeErr.Details
			}
			return formatter.Fail(ExitCommandError, string(composeErr.Code), composeErrorMessage(composeErr), details)
		}
		return WrapExitError(ExitFailure, "compose failed", err)
	}

	id, err := ir.CompositionID(comp)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to compute composition ID", err)
	}
	result := ComposeResult{CompositionID: id, Composition: comp}

	if db := getEnv(DatabaseEnv, ""); opts.Database == "" && db != "" {
		opts.Database = db
	}
	if opts.Database != "" {
		runIDs := opts.RunIDs
		if runIDs == nil {
			runIDs = engine.UUIDv7Generator{}
		}
		run, err := archive(cmd, opts.Database, runIDs.Generate(), req, comp)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
		result.RunID = run.ID
		result.Seq = run.Seq
		formatter.VerboseLog("archived run %s (seq %d) to %s", run.ID, run.Seq, opts.Database)
	}

	return formatter.Success(result)
}

// buildRequest assembles a request from an optional preset and the flags.
// Flags the user set explicitly override preset fields.
func buildRequest(opts *ComposeOptions, cmd *cobra.Command) (ir.Request, error) {
	req := ir.Request{
		Steps:       opts.Steps,
		StepsPerBar: opts.StepsPerBar,
	}

	if opts.Preset != "" {
		dir, name, err := splitPresetRef(opts.Preset)
		if err != nil {
			return ir.Request{}, err
		}
		loaded, loadErrs := LoadPresets(dir, LoadModeFailFast)
		if len(loadErrs) > 0 {
			return ir.Request{}, loadErrs[0]
		}
		p, ok := loaded.FindPreset(name)
		if !ok {
			return ir.Request{}, &LoadError{Code: ErrCodeNotFound, Preset: name, Message: fmt.Sprintf("preset not found in %s", dir)}
		}
		req = p.Request
	}

	flags := cmd.Flags()
	if flags.Changed("seed") || opts.Preset == "" {
		req.Seed = opts.Seed
	}
	if flags.Changed("notes") || opts.Preset == "" {
		req.Notes = nil
		if notes := theory.SplitNotes(opts.Notes); len(notes) > 0 {
			req.Notes = notes
		}
	}
	if flags.Changed("steps") {
		req.Steps = opts.Steps
	}
	if flags.Changed("steps-per-bar") {
		req.StepsPerBar = opts.StepsPerBar
	}

	if opts.Key != "" {
		t, err := theory.ParseTonic(opts.Key)
		if err != nil {
			return ir.Request{}, err
		}
		req.Key = t
	}
	if opts.Scale != "" {
		sc, err := theory.ParseScale(opts.Scale)
		if err != nil {
			return ir.Request{}, err
		}
		req.Scale = sc
	}
	if opts.Progression != "" {
		p, err := theory.ParseProgression(opts.Progression)
		if err != nil {
			return ir.Request{}, err
		}
		req.Progression = p
	}

	if req.Seed == "" && len(req.Notes) == 0 {
		return ir.Request{}, errors.New("one of --seed, --notes or --preset is required")
	}
	return req, nil
}

// composeErrorMessage is the error text without its leading code, which the
// formatter prints separately.
func composeErrorMessage(err *engine.ComposeError) string {
	return strings.TrimPrefix(err.Error(), string(err.Code)+": ")
}

// archive writes a composition run to the database at path and returns the
// stored run with its sequence number.
func archive(cmd *cobra.Command, path, runID string, req ir.Request, comp *ir.Composition) (store.Run, error) {
	st, err := store.Open(path)
	if err != nil {
		return store.Run{}, fmt.Errorf("open archive: %w", err)
	}
	defer st.Close()

	run, err := store.NewRun(runID, req, comp)
	if err != nil {
		return store.Run{}, err
	}
	seq, err := st.WriteRun(cmd.Context(), run)
	if err != nil {
		return store.Run{}, fmt.Errorf("write run: %w", err)
	}
	run.Seq = seq
	return run, nil
}

// RenderText prints a readable summary of the composition.
func (r ComposeResult) RenderText(w io.Writer) {
	c := r.Composition
	fmt.Fprintf(w, "Seed:        %q\n", c.Seed)
	fmt.Fprintf(w, "Key:         %s %s\n", c.Key, c.Scale)
	fmt.Fprintf(w, "Progression: %s\n", theory.FormatProgression(c.Progression))
	fmt.Fprintf(w, "Bars:        %d x %d steps\n", len(c.Chords), c.StepsPerBar)
	fmt.Fprintf(w, "Style:       %s\n", c.Arrangement.Style)
	fmt.Fprintln(w)

	for bar, chord := range c.Chords {
		lo := bar * c.StepsPerBar
		hi := min(lo+c.StepsPerBar, len(c.Melody))
		fmt.Fprintf(w, "Bar %-3d %-4s %v\n", bar+1, chord.Degree, chord.Pitches)
		fmt.Fprintf(w, "  melody  %s\n", formatVoice(c.Melody[lo:hi]))
		fmt.Fprintf(w, "  harmony %s\n", formatVoice(c.Harmony[lo:hi]))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Composition: %s\n", r.CompositionID)
	if r.RunID != "" {
		fmt.Fprintf(w, "Run:         %s (seq %d)\n", r.RunID, r.Seq)
	}
}

// formatVoice renders pitches as space separated numbers, "." for rests.
func formatVoice(ps []ir.Pitch) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		if p.IsRest() {
			parts[i] = "."
		} else {
			parts[i] = fmt.Sprintf("%d", int(p))
		}
	}
	return strings.Join(parts, " ")
}
