package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/seedsong/internal/ir"
	"github.com/roach88/seedsong/internal/theory"
)

// QuantizeOptions holds flags for the quantize command.
type QuantizeOptions struct {
	*RootOptions
	Key   string
	Scale string
	Style string
}

// QuantizeResult is the quantize command's output payload.
type QuantizeResult struct {
	Key     ir.Key     `json:"key"`
	Style   string     `json:"style"`
	Notes   []string   `json:"notes"`
	Pitches []ir.Pitch `json:"pitches"`
	Skipped []string   `json:"skipped,omitempty"`
}

// NewQuantizeCommand creates the quantize command.
func NewQuantizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QuantizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "quantize <notes>",
		Short: "Map note names into a key",
		Long: `Parse note names such as "C4,F#4,Bb3" and map them into a key.

Styles:
  literal - keep every pitch as written
  quant   - snap every pitch to the nearest scale step
  hybrid  - snap only pitches within one semitone of the scale

Names that do not parse are skipped and listed separately.

Examples:
  seedsong quantize "C4,F#4,Bb3" --key C --scale major
  seedsong quantize "C4 D#4 G4" --key A --scale minor --style quant`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuantize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "C", "tonic letter")
	cmd.Flags().StringVar(&opts.Scale, "scale", string(ir.ScaleMajor), "scale (major|minor)")
	cmd.Flags().StringVar(&opts.Style, "style", string(theory.StyleHybrid), "mapping style (literal|quant|hybrid)")

	return cmd
}

func runQuantize(opts *QuantizeOptions, notes string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	tonic, err := theory.ParseTonic(opts.Key)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadRequest, err.Error(), nil)
	}
	scale, err := theory.ParseScale(opts.Scale)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadRequest, err.Error(), nil)
	}

	key := ir.Key{Tonic: tonic, Scale: scale}
	names := theory.SplitNotes(notes)
	pitches, skipped, err := theory.MapMelody(names, key, theory.MappingStyle(opts.Style))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadRequest, err.Error(), nil)
	}
	for _, s := range skipped {
		formatter.VerboseLog("skipped %q: not a note name", s)
	}

	return formatter.Success(QuantizeResult{
		Key:     key,
		Style:   opts.Style,
		Notes:   names,
		Pitches: pitches,
		Skipped: skipped,
	})
}

// RenderText prints the mapped pitches on one line.
func (r QuantizeResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "%s (%s): %s\n", r.Key, r.Style, formatVoice(r.Pitches))
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "skipped: %s\n", strings.Join(r.Skipped, ", "))
	}
}
