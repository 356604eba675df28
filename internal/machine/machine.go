package machine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rcornwell/malbolge/internal/encoding"
	"github.com/rcornwell/malbolge/internal/ternary"
)

// Machine is a stateful Malbolge virtual machine: three 10-trit
// registers, a paged tape, an output buffer, and execution/diagnostic
// counters.
//
// A single Machine serializes its public entry points (Execute,
// ExecuteFromSnapshot, Capture) under mu. Internal helpers that those
// entry points call do not re-lock, so there is no need for a genuinely
// re-entrant mutex — the contract "a single instance serializes
// execution; independent instances/snapshots parallelize freely" holds without it.
type Machine struct {
	mu sync.Mutex

	cfg Config

	a, c, d uint32

	tape       *tape
	programLen int

	output []byte

	steps            uint64
	memoryExpansions uint64
	peakCells        uint32

	haltReason HaltReason
	haltMeta   HaltMetadata

	cycleSeen map[Fingerprint]uint64

	// endOfProgramArmed gates the end_of_program halt check. It is true
	// for a machine loaded via New from a
	// complete, fixed-length program. StepSymbol disarms it: the
	// generator builds a program one opcode at a time and the code
	// pointer routinely runs past the as-yet-uncommitted tail, which
	// must not be mistaken for "ran off the end of the program".
	endOfProgramArmed bool
}

// New constructs a Machine by loading opcodes: the decoded opcode
// values occupy tape[0:n), and cells beyond that are
// filled lazily by the crz continuation rule as they are addressed.
func New(cfg Config, opcodes string) (*Machine, error) {
	n := len(opcodes)
	if n == 0 {
		return nil, fmt.Errorf("machine: program must not be empty")
	}
	limit := cfg.effectiveLimit()
	if uint32(n) > limit {
		return nil, fmt.Errorf("machine: program length %d exceeds memory limit %d", n, limit)
	}
	for i := 0; i < n; i++ {
		if !encoding.IsOpcode(opcodes[i]) {
			return nil, fmt.Errorf("machine: byte %d (%q) at position %d is not a canonical opcode", opcodes[i], opcodes[i], i)
		}
		if opcodes[i] == encoding.OpInput {
			return nil, fmt.Errorf("machine: input opcode %q at position %d is not supported", encoding.OpInput, i)
		}
	}

	m := &Machine{
		cfg:               cfg,
		tape:              newTape(limit),
		cycleSeen:         make(map[Fingerprint]uint64),
		endOfProgramArmed: true,
	}
	for i := 0; i < n; i++ {
		v, err := encoding.EncodeChar(opcodes[i], i)
		if err != nil {
			return nil, fmt.Errorf("machine: %w", err)
		}
		m.tape.set(uint32(i), uint32(v))
	}
	m.tape.length = uint32(n)
	m.programLen = n
	m.peakCells = uint32(n)
	return m, nil
}

// NewEmpty constructs a Machine with no committed program: all registers
// zero, nothing yet written to the tape. It exists for the generator,
// which has no "program" until it commits its first opcode via
// StepSymbol — New's non-empty-program requirement doesn't fit that.
func NewEmpty(cfg Config) *Machine {
	limit := cfg.effectiveLimit()
	return &Machine{
		cfg:       cfg,
		tape:      newTape(limit),
		cycleSeen: make(map[Fingerprint]uint64),
	}
}

func (m *Machine) setHalt(reason HaltReason) {
	if m.haltReason == Running {
		m.haltReason = reason
	}
}

func (m *Machine) ensureLength(target uint32) bool {
	ok := m.tape.grow(target, m.cfg)
	if m.tape.length > m.peakCells {
		m.peakCells = m.tape.length
		m.memoryExpansions++
		slog.Debug("machine: memory expanded", "cells", m.tape.length, "expansions", m.memoryExpansions)
	}
	return ok
}

func (m *Machine) getCell(idx uint32) uint32 {
	return m.tape.get(idx)
}

func (m *Machine) setCell(idx, v uint32) {
	m.tape.set(idx, v)
	if m.tape.length > m.peakCells {
		m.peakCells = m.tape.length
	}
}

// Step executes one opcode, or takes no action and returns false if the
// machine has already halted. It runs the full per-opcode sequence:
// dispatch, re-encryption, register advance, step-limit check,
// cycle-detection sampling, and end-of-program check.
func (m *Machine) Step() bool {
	if m.haltReason != Running {
		return false
	}
	if m.cfg.Ctx != nil && m.cfg.Ctx.Err() != nil {
		m.setHalt(Cancelled)
		return false
	}

	execAddr := m.c
	if !m.ensureLength(execAddr + 1) {
		m.setHalt(MemoryLimitExceeded)
		return false
	}
	cellVal := m.getCell(execAddr)
	if cellVal < encoding.AsciiLow || cellVal >= encoding.AsciiLow+encoding.Width {
		m.setHalt(InvalidOpcode)
		return false
	}
	sym, ok := encoding.DecodeChar(byte(cellVal), int(execAddr))
	if !ok {
		m.setHalt(InvalidOpcode)
		return false
	}
	m.haltMeta.LastInstruction = sym

	switch sym {
	case encoding.OpJumpLoad: // j: d <- tape[d]
		if !m.ensureLength(m.d + 1) {
			m.setHalt(MemoryLimitExceeded)
			return false
		}
		m.d = m.getCell(m.d) % ternary.Modulus

	case encoding.OpJump: // i: c <- tape[d]
		if !m.ensureLength(m.d + 1) {
			m.setHalt(MemoryLimitExceeded)
			return false
		}
		target := m.getCell(m.d) % ternary.Modulus
		m.haltMeta.LastJumpTarget = target
		m.haltMeta.HasLastJumpTarget = true
		m.c = target

	case encoding.OpRotate: // *: tape[d] <- rotate_right(tape[d]); a <- tape[d]
		if !m.ensureLength(m.d + 1) {
			m.setHalt(MemoryLimitExceeded)
			return false
		}
		v := ternary.RotateRight(m.getCell(m.d))
		m.setCell(m.d, v)
		m.a = v

	case encoding.OpCrazy: // p: tape[d] <- crz(tape[d], a); a <- tape[d]
		if !m.ensureLength(m.d + 1) {
			m.setHalt(MemoryLimitExceeded)
			return false
		}
		v := ternary.Crz(m.getCell(m.d), m.a)
		m.setCell(m.d, v)
		m.a = v

	case encoding.OpOutput: // <: append a mod 256 to output
		m.output = append(m.output, byte(m.a%256))

	case encoding.OpInput: // /: input is not supported (rejected at load)
		m.setHalt(InputUnderflow)
		return false

	case encoding.OpHalt: // v: halt, skipping re-encryption (invariant I5)
		m.setHalt(HaltOpcode)
		m.steps++
		return false

	case encoding.OpNop: // o: no-op
	}

	// Re-encrypt the executed cell (invariant I5); impossible to be out
	// of range here given the load-time and per-opcode checks above, but
	// the machine reports it rather than panicking if it ever is.
	orig := m.getCell(execAddr)
	if orig < encoding.AsciiLow || orig >= encoding.AsciiLow+encoding.Width {
		m.setHalt(InvalidOpcode)
		return false
	}
	m.setCell(execAddr, encoding.Reencrypt(orig))

	m.c = (m.c + 1) % ternary.Modulus
	m.d = (m.d + 1) % ternary.Modulus

	m.steps++
	if m.cfg.MaxSteps > 0 && m.steps >= m.cfg.MaxSteps {
		m.setHalt(StepLimitExceeded)
		return false
	}

	if m.cfg.CycleDetectionLimit > 0 && m.cfg.CycleSamplingPeriod > 0 &&
		m.steps%uint64(m.cfg.CycleSamplingPeriod) == 0 {
		m.sampleCycle()
	}

	if m.endOfProgramArmed && m.haltReason == Running && int(m.c) >= m.programLen {
		m.setHalt(EndOfProgram)
		return false
	}

	return true
}

func (m *Machine) sampleCycle() {
	fp := m.fingerprint()
	if seenAt, ok := m.cycleSeen[fp]; ok {
		m.haltMeta.CycleDetected = true
		if repeat := m.steps - seenAt; repeat > m.haltMeta.CycleRepeatLength {
			m.haltMeta.CycleRepeatLength = repeat
		}
		return
	}
	if uint32(len(m.cycleSeen)) >= m.cfg.CycleDetectionLimit {
		m.haltMeta.CycleTrackingLimited = true
		return
	}
	m.cycleSeen[fp] = m.steps
}

func (m *Machine) run() {
	for m.Step() {
	}
}

// Capture returns an immutable deep copy of the machine's current state,
// usable as a resumption point via NewFromSnapshot / ExecuteFromSnapshot.
func (m *Machine) Capture() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capture()
}

// capture is Capture without locking, for callers that already hold mu.
func (m *Machine) capture() *Snapshot {
	return &Snapshot{
		cfg:              m.cfg,
		a:                m.a,
		c:                m.c,
		d:                m.d,
		tape:             m.tape.freeze(),
		programLen:       m.programLen,
		output:           append([]byte(nil), m.output...),
		steps:            m.steps,
		memoryExpansions: m.memoryExpansions,
		peakCells:        m.peakCells,
		haltReason:        m.haltReason,
		haltMeta:          m.haltMeta,
		cycleSeen:         cloneCycleMap(m.cycleSeen),
		endOfProgramArmed: m.endOfProgramArmed,
	}
}

func (m *Machine) result(captureMachine bool) Result {
	r := Result{
		Output:           append([]byte(nil), m.output...),
		Halted:           m.haltReason != Running,
		Steps:            m.steps,
		HaltReason:       m.haltReason,
		HaltMetadata:     m.haltMeta,
		MemoryExpansions: m.memoryExpansions,
		PeakMemoryCells:  m.peakCells,
	}
	if captureMachine {
		r.Machine = m.capture()
	}
	return r
}

// Execute loads opcodes into a fresh machine built from cfg and runs it
// to completion (or cancellation).
func Execute(cfg Config, opcodes string, captureMachine bool) (Result, error) {
	m, err := New(cfg, opcodes)
	if err != nil {
		return Result{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run()
	return m.result(captureMachine), nil
}

// ExecuteFromSnapshot resumes snap, appending suffix (an opcode string,
// not ASCII source) starting at the first cell past the previously
// loaded program, then runs to completion. Registers and output from the
// snapshot are preserved; snap itself is left untouched.
func ExecuteFromSnapshot(snap *Snapshot, suffix string, captureMachine bool) (Result, error) {
	m := NewFromSnapshot(snap)
	for i := 0; i < len(suffix); i++ {
		if !encoding.IsOpcode(suffix[i]) {
			return Result{}, fmt.Errorf("machine: byte %d (%q) at suffix position %d is not a canonical opcode", suffix[i], suffix[i], i)
		}
		if suffix[i] == encoding.OpInput {
			return Result{}, fmt.Errorf("machine: input opcode %q at suffix position %d is not supported", encoding.OpInput, i)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < len(suffix); i++ {
		pos := uint32(m.programLen + i)
		if !m.ensureLength(pos + 1) {
			return Result{}, fmt.Errorf("machine: cannot extend program: memory limit exceeded at position %d", pos)
		}
		v, err := encoding.EncodeChar(suffix[i], int(pos))
		if err != nil {
			return Result{}, fmt.Errorf("machine: %w", err)
		}
		m.setCell(pos, uint32(v))
	}
	m.programLen += len(suffix)
	m.run()
	return m.result(captureMachine), nil
}

// StepSymbol extends snap's program by exactly one opcode at the next
// free position and executes exactly one Step, returning the resulting
// snapshot. Unlike ExecuteFromSnapshot, it never runs past that single
// step — this is the primitive the generator's per-character search
// builds on, where every tree edge is one opcode and one machine step.
// snap itself is left untouched.
func StepSymbol(snap *Snapshot, symbol byte) (*Snapshot, error) {
	if !encoding.IsOpcode(symbol) || symbol == encoding.OpInput {
		return nil, fmt.Errorf("machine: %q is not an appendable opcode", symbol)
	}
	m := NewFromSnapshot(snap)
	m.endOfProgramArmed = false
	m.mu.Lock()
	defer m.mu.Unlock()

	pos := uint32(m.programLen)
	if !m.ensureLength(pos + 1) {
		return nil, fmt.Errorf("machine: cannot extend program: memory limit exceeded at position %d", pos)
	}
	v, err := encoding.EncodeChar(symbol, int(pos))
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}
	m.setCell(pos, uint32(v))
	m.programLen++

	m.Step()
	return m.capture(), nil
}

// Registers returns the current (a, c, d) register values. Exposed for
// the debugger and for generator bookkeeping that needs to inspect a
// live machine without a full Capture.
func (m *Machine) Registers() (a, c, d uint32) {
	return m.a, m.c, m.d
}

// Output returns a copy of the bytes produced so far.
func (m *Machine) Output() []byte {
	return append([]byte(nil), m.output...)
}

// HaltReason reports the machine's current terminal state (Running if
// still executing).
func (m *Machine) HaltReason() HaltReason {
	return m.haltReason
}

// Fingerprint returns the machine's current fingerprint.
func (m *Machine) Fingerprint() Fingerprint {
	return m.fingerprint()
}

// Steps returns the number of opcodes executed so far, including one
// that just halted the machine.
func (m *Machine) Steps() uint64 {
	return m.steps
}
