package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/seedsong/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Presets []string                   `json:"presets,omitempty"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <presets-dir>",
		Short: "Validate CUE preset files",
		Long: `Validate every preset in a directory of CUE files.

Reports all problems at once: unknown keys, scales or degree labels,
unparseable note names, non-positive steps_per_bar, presets with neither
seed nor notes, and names that differ only by case.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadPresets(dir, LoadModeCollectAll)
	if loadResult == nil {
		var loadErr *LoadError
		if len(loadErrors) > 0 && errors.As(loadErrors[0], &loadErr) {
			return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprint(loadErrors), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Preset:  loadErr.Preset,
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    lineOf(loadErr.Pos),
			})
			continue
		}
		validationErrors = append(validationErrors, compiler.ValidationError{
			Field:   "load",
			Message: err.Error(),
			Code:    ErrCodeGeneric,
		})
	}

	names := make([]string, 0, len(loadResult.Presets))
	for i := range loadResult.Presets {
		p := &loadResult.Presets[i]
		formatter.VerboseLog("Validating preset: %s", p.Name)
		names = append(names, p.Name)
		validationErrors = append(validationErrors, compiler.Validate(p)...)
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}
	return outputValidateSuccess(formatter, names)
}

// lineOf extracts the line number from a token.Pos.
func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, names []string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Presets: names})
	}

	fmt.Fprintf(formatter.Writer, "✓ %d preset(s) valid\n", len(names))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		_ = formatter.Error("E_VALIDATION", fmt.Sprintf("%d validation error(s)", len(errs)), ValidationResult{
			Valid:  false,
			Errors: errs,
		})
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %d validation error(s)\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
		}
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("%d validation error(s)", len(errs)))
}
