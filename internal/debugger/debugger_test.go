package debugger

import (
	"strings"
	"testing"

	"github.com/rcornwell/malbolge/internal/machine"
)

func newTestMachine(t *testing.T) *machine.Machine {
	t.Helper()
	m, err := machine.New(machine.DefaultConfig(), "oooov")
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	return m
}

func TestStepExecutesOneOpcodeAtATime(t *testing.T) {
	d := New(newTestMachine(t))
	if n := d.Step(1); n != 1 {
		t.Errorf("Step(1) got: %d want: 1", n)
	}
	if halted, _ := d.Halted(); halted {
		t.Errorf("Halted got: true want: false after one step of five")
	}
}

func TestStepStopsAtHalt(t *testing.T) {
	d := New(newTestMachine(t))
	n := d.Step(100)
	if n != 5 {
		t.Errorf("Step(100) got: %d want: 5 (program length)", n)
	}
	halted, reason := d.Halted()
	if !halted || reason != machine.HaltOpcode {
		t.Errorf("Halted/%v got: %v/%v want: true/halt_opcode", halted, halted, reason)
	}
}

func TestContinueRunsToHalt(t *testing.T) {
	d := New(newTestMachine(t))
	n := d.Continue()
	if n != 5 {
		t.Errorf("Continue() got: %d want: 5", n)
	}
}

func TestBreakpointStopsContinue(t *testing.T) {
	d := New(newTestMachine(t))
	d.SetBreakpoint(2)
	n := d.Continue()
	if n != 2 {
		t.Errorf("Continue() with breakpoint at 2 got: %d steps want: 2", n)
	}
	halted, _ := d.Halted()
	if halted {
		t.Errorf("Halted got: true want: false, breakpoint should stop before halt")
	}
	_, c, _ := d.m.Registers()
	if c != 2 {
		t.Errorf("c register got: %d want: 2", c)
	}
}

func TestClearBreakpointAllowsContinuing(t *testing.T) {
	d := New(newTestMachine(t))
	d.SetBreakpoint(2)
	d.Continue()
	d.ClearBreakpoint(2)
	n := d.Continue()
	if n != 3 {
		t.Errorf("second Continue() got: %d want: 3 remaining steps", n)
	}
	halted, _ := d.Halted()
	if !halted {
		t.Errorf("Halted got: false want: true")
	}
}

func TestProcessCommandStepAndShow(t *testing.T) {
	d := New(newTestMachine(t))
	quit, out, err := ProcessCommand(d, "step 2")
	if err != nil {
		t.Fatalf("ProcessCommand(step 2): %v", err)
	}
	if quit {
		t.Errorf("quit got: true want: false")
	}
	if !strings.Contains(out, "stepped 2") {
		t.Errorf("output got: %q want substring %q", out, "stepped 2")
	}

	_, out, err = ProcessCommand(d, "sh registers")
	if err != nil {
		t.Fatalf("ProcessCommand(sh registers): %v", err)
	}
	if !strings.Contains(out, "c=2") {
		t.Errorf("show registers output got: %q want substring %q", out, "c=2")
	}
}

func TestProcessCommandUnknown(t *testing.T) {
	d := New(newTestMachine(t))
	if _, _, err := ProcessCommand(d, "bogus"); err == nil {
		t.Errorf("expected error for unknown command")
	}
}

func TestProcessCommandAmbiguousPrefix(t *testing.T) {
	d := New(newTestMachine(t))
	// "c" alone matches both "continue" and "clear".
	if _, _, err := ProcessCommand(d, "c"); err == nil {
		t.Errorf("expected ambiguous-command error for prefix %q", "c")
	}
}

func TestProcessCommandQuit(t *testing.T) {
	d := New(newTestMachine(t))
	quit, _, err := ProcessCommand(d, "quit")
	if err != nil {
		t.Fatalf("ProcessCommand(quit): %v", err)
	}
	if !quit {
		t.Errorf("quit got: false want: true")
	}
}
