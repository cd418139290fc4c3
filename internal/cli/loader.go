package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/cases"

	"github.com/roach88/seedsong/internal/compiler"
)

// LoadMode controls how errors are handled during preset loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the presets loaded from a directory.
type LoadResult struct {
	Presets   []compiler.Preset
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during preset loading.
type LoadError struct {
	Code    string
	Preset  string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Detail())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail())
}

// Detail is the message qualified by the preset name, without code or position.
func (e *LoadError) Detail() string {
	if e.Preset != "" {
		return e.Preset + ": " + e.Message
	}
	return e.Message
}

// foldName is the form preset names are compared in. "Alpha" and "alpha"
// name the same preset.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// LoadPresets loads and compiles the CUE presets in a directory.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
//
// A nil result means the directory itself could not be loaded.
func LoadPresets(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("presets directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing presets directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	presetsVal := value.LookupPath(cue.ParsePath("preset"))
	if !presetsVal.Exists() {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: "no presets found"}}
	}

	iter, err := presetsVal.Fields()
	if err != nil {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating presets: %v", err)}}
	}

	seen := make(map[string]string)
	for iter.Next() {
		name := iter.Selector().String()
		if first, ok := seen[foldName(name)]; ok {
			errs = append(errs, &LoadError{
				Code:    compiler.ErrPresetDuplicateName,
				Preset:  name,
				Message: fmt.Sprintf("duplicates preset %q", first),
				Pos:     iter.Value().Pos(),
			})
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		seen[foldName(name)] = name

		p, compileErr := compiler.CompilePreset(iter.Value())
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, name))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Presets = append(result.Presets, *p)
	}

	if len(result.Presets) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no presets found"})
	}
	return result, errs
}

// FindPreset returns the preset whose name folds to the same form as name.
func (r *LoadResult) FindPreset(name string) (*compiler.Preset, bool) {
	want := foldName(name)
	for i := range r.Presets {
		if foldName(r.Presets[i].Name) == want {
			return &r.Presets[i], true
		}
	}
	return nil, false
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// splitPresetRef splits "dir:name" into its directory and preset name.
func splitPresetRef(ref string) (dir, name string, err error) {
	i := strings.LastIndex(ref, ":")
	if i <= 0 || i == len(ref)-1 {
		return "", "", fmt.Errorf("preset reference %q must have the form dir:name", ref)
	}
	return ref[:i], ref[i+1:], nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, preset string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Preset:  preset,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Preset:  preset,
		Message: err.Error(),
	}
}

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "seed":
		return compiler.ErrPresetNoSeed
	case "notes":
		return compiler.ErrPresetInvalidNote
	case "key":
		return compiler.ErrPresetUnknownKey
	case "scale":
		return compiler.ErrPresetUnknownScale
	case "progression":
		return compiler.ErrPresetUnknownDegree
	case "steps_per_bar":
		return compiler.ErrPresetStepsPerBar
	default:
		return ErrCodeGeneric
	}
}
