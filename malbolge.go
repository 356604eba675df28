// Package malbolge is the public facade over internal/machine and
// internal/generator: a thin API surface for embedding the interpreter
// and the program synthesizer in another Go program, without reaching
// into internal packages.
package malbolge

import (
	"github.com/rcornwell/malbolge/internal/encoding"
	"github.com/rcornwell/malbolge/internal/generator"
	"github.com/rcornwell/malbolge/internal/machine"
)

// Config is the interpreter construction record (memory limits, step
// budget, cycle detection). It is exactly internal/machine.Config; the
// alias keeps callers of this package from importing internal/machine
// directly.
type Config = machine.Config

// Snapshot is an immutable resumption point captured from an Interpreter
// run, usable to resume execution from ExecuteFromSnapshot.
type Snapshot = machine.Snapshot

// HaltReason is the taxonomy of terminal machine states.
type HaltReason = machine.HaltReason

// DefaultConfig returns the interpreter defaults used when a caller
// hasn't tuned memory/step/cycle-detection limits.
func DefaultConfig() Config {
	return machine.DefaultConfig()
}

// ExecutionResult is the execution result record, plus an EncodeASCII
// convenience method rendering its opcodes as ASCII source.
type ExecutionResult struct {
	Opcodes          string
	Output           []byte
	Halted           bool
	Steps            uint64
	HaltReason       HaltReason
	HaltMetadata     machine.HaltMetadata
	MemoryExpansions uint64
	PeakMemoryCells  uint32
	Machine          *Snapshot
}

// EncodeASCII renders the result's opcode string as printable-ASCII
// source text via the position-dependent T0 encoding (spec's
// encode_ascii direction).
func (r ExecutionResult) EncodeASCII() (string, error) {
	return encoding.EncodeASCII(r.Opcodes)
}

// Interpreter runs Malbolge programs against a fixed Config.
type Interpreter struct {
	cfg Config
}

// NewInterpreter builds an Interpreter that loads and runs programs
// under cfg.
func NewInterpreter(cfg Config) *Interpreter {
	return &Interpreter{cfg: cfg}
}

// Execute loads opcodes and runs it to completion (or cancellation via
// cfg.Ctx), optionally capturing a resumable Snapshot.
func (i *Interpreter) Execute(opcodes string, captureMachine bool) (ExecutionResult, error) {
	res, err := machine.Execute(i.cfg, opcodes, captureMachine)
	if err != nil {
		return ExecutionResult{}, err
	}
	return fromMachineResult(opcodes, res), nil
}

// ExecuteASCII decodes ascii as printable-ASCII source text, then
// behaves as Execute.
func (i *Interpreter) ExecuteASCII(ascii string, captureMachine bool) (ExecutionResult, error) {
	opcodes, err := encoding.DecodeASCII(ascii)
	if err != nil {
		return ExecutionResult{}, err
	}
	return i.Execute(opcodes, captureMachine)
}

// ExecuteFromSnapshot resumes snap, appends suffix (an opcode string),
// and runs to completion. The returned result's Opcodes field holds only
// the appended suffix — a snapshot's tape cells are re-encrypted in
// place as they execute, so the program text committed before the
// snapshot was taken cannot be recovered from it.
func (i *Interpreter) ExecuteFromSnapshot(snap *Snapshot, suffix string, captureMachine bool) (ExecutionResult, error) {
	res, err := machine.ExecuteFromSnapshot(snap, suffix, captureMachine)
	if err != nil {
		return ExecutionResult{}, err
	}
	return fromMachineResult(suffix, res), nil
}

func fromMachineResult(opcodes string, res machine.Result) ExecutionResult {
	return ExecutionResult{
		Opcodes:          opcodes,
		Output:           res.Output,
		Halted:           res.Halted,
		Steps:            res.Steps,
		HaltReason:       res.HaltReason,
		HaltMetadata:     res.HaltMetadata,
		MemoryExpansions: res.MemoryExpansions,
		PeakMemoryCells:  res.PeakMemoryCells,
		Machine:          res.Machine,
	}
}

// GenConfig is the generator construction record (search depth, opcode
// alphabet, PRNG seed, cache size, worker count). It is exactly
// internal/generator.Config.
type GenConfig = generator.Config

// DefaultGenConfig returns the generator's default configuration.
func DefaultGenConfig() GenConfig {
	return generator.DefaultConfig()
}

// GenerationResult is the generation result record, plus
// the ASCII<->opcode convenience codec.
type GenerationResult struct {
	Opcodes       string
	AsciiSource   string
	Target        []byte
	MachineOutput []byte
	Stats         generator.Stats
	Trace         []generator.TraceEvent
}

// EncodeASCII returns the result's already-computed ASCII source text
// (spec's encode_ascii direction, precomputed during generation).
func (r GenerationResult) EncodeASCII() string {
	return r.AsciiSource
}

// DecodeASCII re-derives the opcode string from the result's ASCII
// source text (spec's decode direction), as a round-trip check.
func (r GenerationResult) DecodeASCII() (string, error) {
	return encoding.DecodeASCII(r.AsciiSource)
}

// Generator synthesizes Malbolge programs that print a chosen target
// string.
type Generator struct{}

// NewGenerator returns a Generator. It carries no state of its own —
// every call to GenerateForString is independent, taking its own config.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateForString synthesizes a program whose output equals target.
func (g *Generator) GenerateForString(target []byte, cfg GenConfig) (GenerationResult, error) {
	res, err := generator.GenerateForString(target, cfg)
	if err != nil {
		return GenerationResult{}, err
	}
	return GenerationResult{
		Opcodes:       res.Opcodes,
		AsciiSource:   res.AsciiSource,
		Target:        res.Target,
		MachineOutput: res.MachineOutput,
		Stats:         res.Stats,
		Trace:         res.Trace,
	}, nil
}
