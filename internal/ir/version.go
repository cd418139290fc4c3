package ir

// Version constants for the composition document and the engine.
const (
	// DocumentVersion is the canonical composition schema version.
	DocumentVersion = "1"

	// EngineVersion is the seedsong engine version. Bump it whenever a change
	// alters the output produced for an existing seed.
	EngineVersion = "0.3.0"
)

// Request defaults applied when a caller leaves a field unset.
const (
	DefaultSteps       = 64
	DefaultStepsPerBar = 8
)
