// Package debugger implements an interactive, single-stepping console
// for a Malbolge machine, used by the `run --interactive` CLI mode.
// Command dispatch is a prefix-matched []cmd table over a position-based
// line cursor, with process functions that mutate shared state and
// report whether the session should end.
package debugger

import (
	"fmt"

	"github.com/rcornwell/malbolge/internal/machine"
)

// Debugger steps a single Machine under interactive control: one opcode
// at a time, with optional address breakpoints.
type Debugger struct {
	m           *machine.Machine
	breakpoints map[uint32]bool
}

// New wraps m for interactive stepping. m must not be stepped
// concurrently from elsewhere while a Debugger owns it.
func New(m *machine.Machine) *Debugger {
	return &Debugger{m: m, breakpoints: make(map[uint32]bool)}
}

// Step executes up to n opcodes, stopping early if the machine halts or
// the execute-address register lands on a breakpoint after a step.
// Returns the number of opcodes actually executed (Step's bool return
// is false on the very opcode that halts the machine, e.g. a halt
// opcode, so that step still counts here via the machine's own counter).
func (d *Debugger) Step(n int) int {
	start := d.m.Steps()
	for i := 0; i < n; i++ {
		if d.m.HaltReason() != machine.Running {
			break
		}
		d.m.Step()
		if d.m.HaltReason() != machine.Running {
			break
		}
		_, c, _ := d.m.Registers()
		if d.breakpoints[c] {
			break
		}
	}
	return int(d.m.Steps() - start)
}

// Continue steps until halt or a breakpoint is hit after a step.
// Returns the number of opcodes executed.
func (d *Debugger) Continue() int {
	start := d.m.Steps()
	for d.m.HaltReason() == machine.Running {
		d.m.Step()
		if d.m.HaltReason() != machine.Running {
			break
		}
		_, c, _ := d.m.Registers()
		if d.breakpoints[c] {
			break
		}
	}
	return int(d.m.Steps() - start)
}

// SetBreakpoint arms a breakpoint at the given execute-address.
func (d *Debugger) SetBreakpoint(addr uint32) {
	d.breakpoints[addr] = true
}

// ClearBreakpoint disarms a breakpoint, if any, at addr.
func (d *Debugger) ClearBreakpoint(addr uint32) {
	delete(d.breakpoints, addr)
}

// Registers formats the current a/c/d register values.
func (d *Debugger) Registers() string {
	a, c, dReg := d.m.Registers()
	return fmt.Sprintf("a=%d c=%d d=%d", a, c, dReg)
}

// Output formats the machine's output buffer so far.
func (d *Debugger) Output() string {
	return fmt.Sprintf("%q", string(d.m.Output()))
}

// Halted reports whether the underlying machine has reached a terminal
// state, and which one.
func (d *Debugger) Halted() (bool, machine.HaltReason) {
	r := d.m.HaltReason()
	return r != machine.Running, r
}
