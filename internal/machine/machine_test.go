package machine

import "testing"

func testConfig() Config {
	return Config{
		AllowMemoryExpansion: true,
		MemoryLimit:          4096,
		MaxSteps:             10_000,
		CycleDetectionLimit:  256,
		CycleSamplingPeriod:  4,
	}
}

// execute("v") on a fresh interpreter halts immediately on the halt opcode.
func TestExecuteHaltOpcode(t *testing.T) {
	res, err := Execute(testConfig(), "v", false)
	if err != nil {
		t.Fatalf("Execute(v): %v", err)
	}
	if res.HaltReason != HaltOpcode {
		t.Errorf("HaltReason got: %v expected: %v", res.HaltReason, HaltOpcode)
	}
	if res.Steps != 1 {
		t.Errorf("Steps got: %d expected: %d", res.Steps, 1)
	}
	if len(res.Output) != 0 {
		t.Errorf("Output got: %q expected empty", res.Output)
	}
}

// A single no-op with no halt opcode runs off the end of the loaded
// program and halts end_of_program after exactly one step.
func TestExecuteEndOfProgram(t *testing.T) {
	res, err := Execute(testConfig(), "o", false)
	if err != nil {
		t.Fatalf("Execute(o): %v", err)
	}
	if res.HaltReason != EndOfProgram {
		t.Errorf("HaltReason got: %v expected: %v", res.HaltReason, EndOfProgram)
	}
	if res.Steps != 1 {
		t.Errorf("Steps got: %d expected: %d", res.Steps, 1)
	}
}

// A program that would exceed max_steps halts with step_limit_exceeded
// at exactly the configured step count, with no output truncation beyond
// what was already produced.
func TestExecuteStepLimitExceeded(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSteps = 3
	res, err := Execute(cfg, "ooooo", false)
	if err != nil {
		t.Fatalf("Execute(ooooo): %v", err)
	}
	if res.HaltReason != StepLimitExceeded {
		t.Errorf("HaltReason got: %v expected: %v", res.HaltReason, StepLimitExceeded)
	}
	if res.Steps != 3 {
		t.Errorf("Steps got: %d expected: %d", res.Steps, 3)
	}
}

// New rejects an empty program, an oversize program, and a program
// containing the (unsupported) input opcode.
func TestNewLoadErrors(t *testing.T) {
	if _, err := New(testConfig(), ""); err == nil {
		t.Errorf("New(\"\") expected error, got nil")
	}
	tiny := testConfig()
	tiny.MemoryLimit = 2
	if _, err := New(tiny, "ooo"); err == nil {
		t.Errorf("New(oversize) expected error, got nil")
	}
	if _, err := New(testConfig(), "/v"); err == nil {
		t.Errorf("New(with input opcode) expected error, got nil")
	}
	if _, err := New(testConfig(), "qv"); err == nil {
		t.Errorf("New(with non-opcode byte) expected error, got nil")
	}
}

// Disabling memory expansion and forcing the data pointer out of the
// allotted range halts memory_limit_exceeded at the offending step.
func TestMemoryLimitExceeded(t *testing.T) {
	cfg := testConfig()
	cfg.AllowMemoryExpansion = false
	cfg.MemoryLimit = 4
	m, err := New(cfg, "*v")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.d = 10 // force the data pointer out of range for this white-box test
	if ok := m.Step(); ok {
		t.Fatalf("Step() returned true, expected the machine to halt")
	}
	if m.haltReason != MemoryLimitExceeded {
		t.Errorf("haltReason got: %v expected: %v", m.haltReason, MemoryLimitExceeded)
	}
}

// A cycle-detection capacity smaller than the actual period sets
// cycle_tracking_limited without ever setting cycle_detected.
func TestCycleTrackingLimited(t *testing.T) {
	cfg := testConfig()
	cfg.CycleDetectionLimit = 2
	m, err := New(cfg, "ov")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 5; i++ {
		m.a = uint32(i) // force distinct fingerprints so the set fills without a hit
		m.sampleCycle()
	}
	if !m.haltMeta.CycleTrackingLimited {
		t.Errorf("CycleTrackingLimited got: false expected: true")
	}
	if m.haltMeta.CycleDetected {
		t.Errorf("CycleDetected got: true expected: false")
	}
}

// Repeating the exact same state triggers cycle_detected with a
// positive repeat length.
func TestCycleDetected(t *testing.T) {
	cfg := testConfig()
	m, err := New(cfg, "ov")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.steps = 10
	m.sampleCycle()
	m.steps = 17
	m.sampleCycle()
	if !m.haltMeta.CycleDetected {
		t.Errorf("CycleDetected got: false expected: true")
	}
	if m.haltMeta.CycleRepeatLength != 7 {
		t.Errorf("CycleRepeatLength got: %d expected: %d", m.haltMeta.CycleRepeatLength, 7)
	}
}

// Fingerprints are a pure function of machine state: two machines loaded
// with the same program and stepped the same number of times produce
// identical fingerprints.
func TestFingerprintDeterministic(t *testing.T) {
	cfg := testConfig()
	m1, _ := New(cfg, "ooov")
	m2, _ := New(cfg, "ooov")
	for i := 0; i < 2; i++ {
		m1.Step()
		m2.Step()
	}
	if m1.Fingerprint() != m2.Fingerprint() {
		t.Errorf("fingerprints diverged for identical state")
	}
}

// Capturing a snapshot and continuing to run the live machine must never
// change the snapshot's output or fingerprint (copy-on-write isolation).
func TestCaptureIsolatesSnapshot(t *testing.T) {
	cfg := testConfig()
	m, err := New(cfg, "oooooov")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Step()
	snap := m.Capture()
	beforeOutput := append([]byte(nil), snap.Output()...)
	beforeFP := snap.Fingerprint()

	for m.Step() {
	}

	if got := snap.Output(); string(got) != string(beforeOutput) {
		t.Errorf("snapshot output mutated: got %q want %q", got, beforeOutput)
	}
	if snap.Fingerprint() != beforeFP {
		t.Errorf("snapshot fingerprint mutated after continuing the live machine")
	}
}

// ExecuteFromSnapshot appends a suffix and keeps the prior output intact.
func TestExecuteFromSnapshotAppends(t *testing.T) {
	cfg := testConfig()
	m, err := New(cfg, "ooo")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Step()
	m.Step()
	snap := m.Capture()

	res, err := ExecuteFromSnapshot(snap, "v", false)
	if err != nil {
		t.Fatalf("ExecuteFromSnapshot: %v", err)
	}
	if res.HaltReason != HaltOpcode {
		t.Errorf("HaltReason got: %v expected: %v", res.HaltReason, HaltOpcode)
	}
}
