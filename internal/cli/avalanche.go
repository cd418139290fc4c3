package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/seedsong/internal/engine"
	"github.com/roach88/seedsong/internal/ir"
)

// AvalancheOptions holds flags for the avalanche command.
type AvalancheOptions struct {
	*RootOptions
	Seed        string
	Steps       int
	StepsPerBar int
	Threshold   float64
}

// AvalancheResult wraps the engine report with the pass threshold.
type AvalancheResult struct {
	engine.AvalancheReport
	Threshold float64 `json:"threshold"`
	Pass      bool    `json:"pass"`
}

// NewAvalancheCommand creates the avalanche command.
func NewAvalancheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AvalancheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "avalanche",
		Short: "Measure how one-character seed edits change the output",
		Long: `Compose the seed and every single-character mutation of it, then report
the fraction of mutations that change the key, scale or progression or
alter more than half of the melody.

Exit codes:
  0 - Fraction at or above --threshold
  1 - Fraction below --threshold
  2 - Command error

Examples:
  seedsong avalanche --seed alpha
  seedsong avalanche --seed "the quick brown fox" --threshold 0.9 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAvalanche(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed string (required)")
	_ = cmd.MarkFlagRequired("seed")
	cmd.Flags().IntVar(&opts.Steps, "steps", ir.DefaultSteps, "melody length in steps")
	cmd.Flags().IntVar(&opts.StepsPerBar, "steps-per-bar", ir.DefaultStepsPerBar, "steps per bar")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0.5, "minimum changed fraction")

	return cmd
}

func runAvalanche(opts *AvalancheOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	composer := engine.New(engine.WithLogger(newLogger(opts.RootOptions, cmd)))
	report, err := composer.Avalanche(cmd.Context(), ir.Request{
		Seed:        opts.Seed,
		Steps:       opts.Steps,
		StepsPerBar: opts.StepsPerBar,
	})
	if err != nil {
		var composeErr *engine.ComposeError
		switch {
		case errors.Is(err, engine.ErrEmptySeed):
			return formatter.Fail(ExitCommandError, ErrCodeBadRequest, err.Error(), nil)
		case errors.As(err, &composeErr):
			return formatter.Fail(ExitCommandError, string(composeErr.Code), composeErrorMessage(composeErr), nil)
		default:
			return WrapExitError(ExitFailure, "avalanche failed", err)
		}
	}

	result := AvalancheResult{
		AvalancheReport: report,
		Threshold:       opts.Threshold,
		Pass:            report.Fraction >= opts.Threshold,
	}
	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("avalanche fraction %.3f below threshold %.3f", report.Fraction, opts.Threshold))
	}
	return nil
}

// RenderText prints the report.
func (r AvalancheResult) RenderText(w io.Writer) {
	status := "✓"
	if !r.Pass {
		status = "✗"
	}
	fmt.Fprintf(w, "%s %q: %d/%d mutations changed the piece (%.1f%%, threshold %.1f%%)\n",
		status, r.Seed, r.Changed, r.Mutations, r.Fraction*100, r.Threshold*100)
	fmt.Fprintf(w, "  mean melody distance: %.3f\n", r.MeanMelodyDistance)
}
