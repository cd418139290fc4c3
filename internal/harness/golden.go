package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/seedsong/internal/ir"
)

// RunWithGolden executes a scenario and compares its canonical composition
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the composition doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if result.Composition == nil {
		return result, nil
	}
	return result, AssertGolden(t, scenario.Name, result.Composition)
}

// AssertGolden compares a composition against a golden file without
// re-running its scenario.
func AssertGolden(t *testing.T, name string, c *ir.Composition) error {
	t.Helper()

	data, err := CanonicalBytes(c)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}

// CanonicalBytes is the golden-file form of a composition: its canonical
// JSON encoding.
func CanonicalBytes(c *ir.Composition) ([]byte, error) {
	return ir.MarshalCanonical(c.Object())
}
