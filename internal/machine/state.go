// Package machine implements the Malbolge virtual machine: registers,
// paged tape, opcode dispatch, cycle detection, halt taxonomy, and
// snapshot capture/restore.
package machine

import (
	"context"

	"github.com/rcornwell/malbolge/internal/ternary"
)

// HaltReason is the taxonomy of terminal states a machine can reach.
// Every value except Running is terminal; halt_reason transitions from
// Running to a terminal value exactly once (invariant I6).
type HaltReason int

const (
	Running HaltReason = iota
	HaltOpcode
	EndOfProgram
	InvalidOpcode
	InputUnderflow
	StepLimitExceeded
	MemoryLimitExceeded
	Cancelled
)

func (h HaltReason) String() string {
	switch h {
	case Running:
		return "running"
	case HaltOpcode:
		return "halt_opcode"
	case EndOfProgram:
		return "end_of_program"
	case InvalidOpcode:
		return "invalid_opcode"
	case InputUnderflow:
		return "input_underflow"
	case StepLimitExceeded:
		return "step_limit_exceeded"
	case MemoryLimitExceeded:
		return "memory_limit_exceeded"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Config holds the construction parameters for a Machine, per
// §4.3. Every field is named and defaulted explicitly; there is no hidden
// or dynamically-discovered configuration.
type Config struct {
	AllowMemoryExpansion bool
	MemoryLimit          uint32 // 0 or >= ternary.Modulus means "up to the full address space"
	MaxSteps             uint64 // 0 means unlimited
	CycleDetectionLimit  uint32 // 0 disables cycle detection
	CycleSamplingPeriod  uint32 // must be >= 1 when cycle detection is enabled

	// Ctx, when non-nil, is checked once per step; a cancelled context
	// halts the machine with Cancelled and surfaces partial results.
	Ctx context.Context
}

// DefaultConfig returns the configuration used when a caller wants the
// full legal address space and a generous but finite step budget.
func DefaultConfig() Config {
	return Config{
		AllowMemoryExpansion: true,
		MemoryLimit:          ternary.Modulus,
		MaxSteps:             50_000_000,
		CycleDetectionLimit:  4096,
		CycleSamplingPeriod:  97,
	}
}

func (c Config) effectiveLimit() uint32 {
	if c.MemoryLimit == 0 || c.MemoryLimit > ternary.Modulus {
		return ternary.Modulus
	}
	return c.MemoryLimit
}

// HaltMetadata carries the diagnostic fields populated regardless of
// whether the machine is still running or has halted.
type HaltMetadata struct {
	LastInstruction    byte
	LastJumpTarget     uint32
	HasLastJumpTarget  bool
	CycleDetected      bool
	CycleRepeatLength  uint64
	CycleTrackingLimited bool
}

// Fingerprint uniquely identifies a machine snapshot for caching and
// cycle detection: (a, c, d, content hash of tape[0:peakCells], len(output)).
// The content hash is two independent deterministic FNV-1a passes (no
// process-random seed, unlike hash/maphash) so that fingerprints — and
// anything derived from them, like generator trace events — are
// byte-identical across separate runs of the same configuration. See
// DESIGN.md, "standard-library justifications".
type Fingerprint struct {
	Hi uint64
	Lo uint64
}

// Result is the record returned by Execute / ExecuteFromSnapshot.
type Result struct {
	Output           []byte
	Halted           bool
	Steps            uint64
	HaltReason       HaltReason
	HaltMetadata     HaltMetadata
	MemoryExpansions uint64
	PeakMemoryCells  uint32
	Machine          *Snapshot // non-nil only when capture was requested
}
