package machine

// Snapshot is an immutable deep copy of a Machine at some step, usable as
// a resumption point. Consumers must treat it as immutable; restoring
// from it (directly via NewFromSnapshot, or via ExecuteFromSnapshot)
// never mutates the snapshot itself, so one Snapshot can seed any number
// of independent, concurrently-steppable machines.
type Snapshot struct {
	cfg        Config
	a, c, d    uint32
	tape       *tape
	programLen int
	output     []byte
	steps      uint64
	memoryExpansions uint64
	peakCells  uint32
	haltReason HaltReason
	haltMeta   HaltMetadata
	cycleSeen  map[Fingerprint]uint64

	endOfProgramArmed bool
}

// Fingerprint returns the identifying fingerprint of this snapshot,
// usable as a cache or repeated-state key without restoring a machine.
func (s *Snapshot) Fingerprint() Fingerprint {
	m := &Machine{
		cfg: s.cfg, a: s.a, c: s.c, d: s.d, tape: s.tape,
		peakCells: s.peakCells, output: s.output,
	}
	return m.fingerprint()
}

// Output returns the byte sequence the snapshotted machine had produced.
func (s *Snapshot) Output() []byte {
	return append([]byte(nil), s.output...)
}

// HaltReason reports the snapshotted machine's terminal state (Running if
// it had not yet halted).
func (s *Snapshot) HaltReason() HaltReason {
	return s.haltReason
}

// Steps reports the snapshotted machine's step count.
func (s *Snapshot) Steps() uint64 {
	return s.steps
}

// ProgramLen reports the number of opcode cells committed at capture
// time — the position the next appended symbol must occupy.
func (s *Snapshot) ProgramLen() int {
	return s.programLen
}

func cloneCycleMap(m map[Fingerprint]uint64) map[Fingerprint]uint64 {
	out := make(map[Fingerprint]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NewFromSnapshot constructs a fresh, independently mutable Machine
// resuming from snap. The snapshot is left untouched.
func NewFromSnapshot(snap *Snapshot) *Machine {
	return &Machine{
		cfg:              snap.cfg,
		a:                snap.a,
		c:                snap.c,
		d:                snap.d,
		tape:             snap.tape.restoreView(),
		programLen:       snap.programLen,
		output:           append([]byte(nil), snap.output...),
		steps:            snap.steps,
		memoryExpansions: snap.memoryExpansions,
		peakCells:        snap.peakCells,
		haltReason:        snap.haltReason,
		haltMeta:          snap.haltMeta,
		cycleSeen:         cloneCycleMap(snap.cycleSeen),
		endOfProgramArmed: snap.endOfProgramArmed,
	}
}
