// Package generator synthesizes Malbolge programs whose output equals a
// chosen target string, by driving internal/machine through a bounded,
// cache-aware per-character search.
package generator

import (
	"context"

	"github.com/rcornwell/malbolge/internal/machine"
)

// defaultOpcodeChoices is the construction-opcode alphabet used unless a
// caller overrides it: rotate, crazy, and no-op, per spec's default "op*".
const defaultOpcodeChoices = "op*"

// bootstrapJump is the fixed bootstrap prefix symbol, followed by 99
// no-ops, that primes a machine before the per-character search begins.
const (
	bootstrapJump    = 'i'
	bootstrapNopRuns = 99
)

// Config holds every tunable the generator needs. All fields are named
// and defaulted explicitly — no hidden or dynamically-discovered
// configuration, per the interpreter's own Config (internal/machine).
type Config struct {
	// RandomSeed seeds the deterministic xoshiro256** stream used for
	// randomized extension. Nil means "derive a seed from the runtime",
	// which makes the run's tie-breaking among equal-quality attempts
	// nondeterministic across processes (machine_output is unaffected;
	// see spec's "changing only random_seed" determinism property).
	RandomSeed *uint64

	// MaxSearchDepth is the per-character exhaustive tree depth D.
	MaxSearchDepth int

	// OpcodeChoices is a non-empty subset of {o, p, *}, the symbols the
	// search may append while hunting for the next output byte.
	OpcodeChoices string

	// MaxProgramLength upper-bounds the opcode count, including the
	// bootstrap prefix and the trailing halt; exceeding it fails with
	// ErrGenerationExhausted. 0 leaves only the hard ceiling of the
	// machine's memory limit.
	MaxProgramLength uint32

	// CaptureTrace enables per-evaluation trace event recording.
	CaptureTrace bool

	// MaxRandomDrawsPerChar bounds the randomized-extension fallback for
	// a single target character before the generator gives up with
	// ErrGenerationExhausted. Not named as a top-level spec field, but
	// implied by "a per-character cap on randomized draws bounds the
	// worst case" — supplemented here as an explicit, documented knob.
	MaxRandomDrawsPerChar uint32

	// SnapshotCacheSize bounds the (parent_fingerprint, symbol) -> child
	// snapshot cache shared across the whole run.
	SnapshotCacheSize int

	// Workers bounds the goroutine pool used for parallel sibling
	// expansion within one tree level. 0 or 1 runs sequentially.
	Workers int

	// Machine carries the interpreter construction parameters used for
	// every machine built during the search and for the final
	// verification run.
	Machine machine.Config

	// Ctx, when non-nil, is checked at least once per child expansion; a
	// cancelled context halts the generator with ErrCancelled.
	Ctx context.Context
}

// DefaultConfig returns generous defaults suitable for most targets.
func DefaultConfig() Config {
	mcfg := machine.DefaultConfig()
	return Config{
		MaxSearchDepth:        5,
		OpcodeChoices:         defaultOpcodeChoices,
		MaxProgramLength:      mcfg.MemoryLimit,
		CaptureTrace:          false,
		MaxRandomDrawsPerChar: 64,
		SnapshotCacheSize:     4096,
		Workers:               1,
		Machine:               mcfg,
	}
}

func (c Config) effectiveMaxRandomDraws() uint32 {
	if c.MaxRandomDrawsPerChar == 0 {
		return 64
	}
	return c.MaxRandomDrawsPerChar
}

func (c Config) effectiveWorkers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

func (c Config) ctx() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}
