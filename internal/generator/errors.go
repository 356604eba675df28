package generator

import "errors"

// Generator-level error taxonomy: these are bug-level or
// exhaustion conditions raised to the caller, distinct from the
// interpreter's halt_reason data (which is never an error).
var (
	// ErrGenerationExhausted is returned when a target character's
	// randomized-extension budget (Config.MaxRandomDrawsPerChar) is
	// exceeded without finding a candidate winner, or when the program
	// grows past Config.MaxProgramLength.
	ErrGenerationExhausted = errors.New("generator: randomized-extension budget exhausted")

	// ErrVerificationFailed is returned when the final re-execution of
	// the assembled program does not reproduce the target exactly. This
	// indicates an internal bug in the search, not a target that cannot
	// be produced — the search only ever commits bytes it already
	// observed the machine emit.
	ErrVerificationFailed = errors.New("generator: final verification did not reproduce the target")

	// ErrCancelled is returned when Config.Ctx is cancelled mid-run.
	ErrCancelled = errors.New("generator: cancelled")
)
