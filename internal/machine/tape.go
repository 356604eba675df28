package machine

import "github.com/rcornwell/malbolge/internal/ternary"

// pageSize is the granularity of copy-on-write sharing between a machine
// and any snapshot taken from it: a direct
// deep copy of the full 59049-cell tape per candidate is prohibitive, so
// pages are shared by pointer until one side writes into them.
const pageSize = 1024

type page [pageSize]uint32

// tape is the 10-trit cell array backing a Machine. It never shrinks
// (invariant I4) and grows cell by cell on demand; storage is allocated
// and copy-on-write shared across Capture()'d snapshots a page
// (pageSize cells) at a time.
type tape struct {
	pages     []*page // len(pages) == cap(length)/pageSize, entries may be nil until touched
	owned     []bool  // whether this instance may mutate pages[i] in place
	length    uint32  // number of valid cells
	hash1     []uint64
	hash2     []uint64
	hashFresh []bool
}

func newTape(limit uint32) *tape {
	n := int((limit + pageSize - 1) / pageSize)
	return &tape{
		pages:     make([]*page, n),
		owned:     make([]bool, n),
		hash1:     make([]uint64, n),
		hash2:     make([]uint64, n),
		hashFresh: make([]bool, n),
	}
}

func (t *tape) get(idx uint32) uint32 {
	pi := idx / pageSize
	p := t.pages[pi]
	if p == nil {
		return 0
	}
	return p[idx%pageSize]
}

// set mutates a cell, cloning its page first if this instance does not
// yet own it (the page pointer is still shared with a snapshot).
func (t *tape) set(idx, v uint32) {
	pi := idx / pageSize
	if t.pages[pi] == nil {
		t.pages[pi] = &page{}
		t.owned[pi] = true
	} else if !t.owned[pi] {
		clone := *t.pages[pi]
		t.pages[pi] = &clone
		t.owned[pi] = true
	}
	t.pages[pi][idx%pageSize] = v
	t.hashFresh[pi] = false
}

// freeze is called on a live, mutable tape to produce the immutable copy
// stored in a Snapshot. Pages are shared by pointer; ownership is
// released on the SOURCE tape too, so the live machine clones a page
// before its next write rather than mutating what was just captured.
func (t *tape) freeze() *tape {
	out := t.shareView()
	for i := range t.owned {
		t.owned[i] = false
	}
	return out
}

// restoreView is called on an already-frozen (Snapshot-owned) tape to
// produce a fresh mutable tape for a machine resuming from that
// snapshot. It only reads the source, never mutates it, so restoring the
// same Snapshot concurrently from multiple goroutines is safe.
func (t *tape) restoreView() *tape {
	return t.shareView()
}

func (t *tape) shareView() *tape {
	n := len(t.pages)
	out := &tape{
		pages:     make([]*page, n),
		owned:     make([]bool, n),
		length:    t.length,
		hash1:     append([]uint64(nil), t.hash1...),
		hash2:     append([]uint64(nil), t.hash2...),
		hashFresh: append([]bool(nil), t.hashFresh...),
	}
	copy(out.pages, t.pages)
	return out
}

// grow extends the tape to cover at least target cells, filling new
// cells with the crz continuation rule, subject to policy. Returns false
// if expansion is disallowed or would exceed the configured limit.
func (t *tape) grow(target uint32, cfg Config) bool {
	if target <= t.length {
		return true
	}
	limit := cfg.effectiveLimit()
	if target > limit {
		return false
	}
	if !cfg.AllowMemoryExpansion {
		return false
	}
	for t.length < target {
		idx := t.length
		var prev1, prev2 uint32
		if idx >= 1 {
			prev1 = t.get(idx - 1)
		}
		if idx >= 2 {
			prev2 = t.get(idx - 2)
		}
		t.set(idx, ternary.Crz(prev1, prev2))
		t.length++
	}
	return true
}
