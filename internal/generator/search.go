package generator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set"

	"github.com/rcornwell/malbolge/internal/encoding"
	"github.com/rcornwell/malbolge/internal/machine"
)

// node is one point in the per-character search tree: the opcode suffix
// appended since the frontier, and the snapshot reached by applying it.
type node struct {
	suffix   []byte
	snapshot *machine.Snapshot
}

// traceRecorder guards TraceEvent appends across the parallel sibling-
// expansion worker pool.
type traceRecorder struct {
	mu      sync.Mutex
	events  []TraceEvent
	enabled bool
}

func (t *traceRecorder) record(ev TraceEvent) {
	if t == nil || !t.enabled {
		return
	}
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()
}

// isPrefix reports whether output is a prefix of target.
func isPrefix(output, target []byte) bool {
	if len(output) > len(target) {
		return false
	}
	for i, b := range output {
		if target[i] != b {
			return false
		}
	}
	return true
}

// stepCached applies sym to parent, consulting the snapshot cache keyed
// by (parent_fingerprint, symbol) before stepping the interpreter.
func stepCached(cache *snapshotCache, parent *machine.Snapshot, sym byte, stats *Stats) (*machine.Snapshot, bool, error) {
	key := cacheKey{fp: parent.Fingerprint(), symbol: sym}
	if snap, ok := cache.get(key); ok {
		atomic.AddUint64(&stats.CacheHits, 1)
		return snap, true, nil
	}
	snap, err := machine.StepSymbol(parent, sym)
	if err != nil {
		return nil, false, err
	}
	cache.add(key, snap)
	return snap, false, nil
}

// boundedSearch performs the bounded, per-character tree search: level
// expansion with prefix pruning, repeated-state pruning, cache reuse, and
// success detection, up to MaxSearchDepth levels. A nil, nil return means
// no candidate winner exists within the configured depth.
func boundedSearch(ctx context.Context, base *machine.Snapshot, target []byte, k int, cfg Config, cache *snapshotCache, stats *Stats, trace *traceRecorder) (*node, error) {
	level := []node{{snapshot: base}}
	repeated := mapset.NewSet()

	for depth := 0; depth < cfg.MaxSearchDepth; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, ErrCancelled
		}
		winners, next, err := expandLevel(ctx, level, depth, target, k, cfg, cache, repeated, stats, trace)
		if err != nil {
			return nil, err
		}
		if len(winners) > 0 {
			best := pickWinner(winners, cfg)
			return &best, nil
		}
		level = next
		if len(level) == 0 {
			break
		}
	}
	return nil, nil
}

// expandLevel expands every node at the current level by appending each
// opcode_choices symbol, probing the output opcode to test for success.
// Sibling nodes are distributed across a bounded worker pool: each worker
// clones the frontier, cache/set inserts are synchronized, and the
// deterministic tie-break rule runs after the pool drains so parallelism
// never changes the chosen winner.
func expandLevel(ctx context.Context, level []node, depth int, target []byte, k int, cfg Config, cache *snapshotCache, repeated mapset.Set, stats *Stats, trace *traceRecorder) ([]node, []node, error) {
	workers := cfg.effectiveWorkers()
	if workers > len(level) {
		workers = len(level)
	}
	if workers < 1 {
		workers = 1
	}

	type result struct {
		winners []node
		next    []node
		err     error
	}

	jobs := make(chan node)
	results := make(chan result, len(level))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for parent := range jobs {
				w, n, err := expandNode(ctx, parent, depth, target, k, cfg, cache, repeated, stats, trace)
				results <- result{winners: w, next: n, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range level {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var winners, next []node
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		winners = append(winners, r.winners...)
		next = append(next, r.next...)
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}
	return winners, next, nil
}

// expandNode enumerates parent's children, one per opcode_choices symbol,
// applying prefix pruning, repeated-state pruning, and the output-opcode
// success probe.
func expandNode(ctx context.Context, parent node, depth int, target []byte, k int, cfg Config, cache *snapshotCache, repeated mapset.Set, stats *Stats, trace *traceRecorder) ([]node, []node, error) {
	parentFP := parent.snapshot.Fingerprint()
	var winners, next []node

	for i := 0; i < len(cfg.OpcodeChoices); i++ {
		sym := cfg.OpcodeChoices[i]
		if err := ctx.Err(); err != nil {
			return nil, nil, ErrCancelled
		}

		child, childHit, err := stepCached(cache, parent.snapshot, sym, stats)
		if err != nil {
			return nil, nil, err
		}
		atomic.AddUint64(&stats.Evaluations, 1)

		childSuffix := append(append([]byte{}, parent.suffix...), sym)
		childFP := child.Fingerprint()
		childOut := child.Output()

		if !isPrefix(childOut, target) {
			atomic.AddUint64(&stats.Pruned, 1)
			trace.record(TraceEvent{Depth: depth, ParentFingerprint: parentFP, Symbol: sym, Reason: ReasonPrefixMismatch, OutputLength: len(childOut), Fingerprint: childFP})
			slog.Debug("generator: pruned", "depth", depth, "char", k, "symbol", string(sym), "reason", "prefix_mismatch")
			continue
		}
		if repeated.Contains(childFP) {
			atomic.AddUint64(&stats.Pruned, 1)
			atomic.AddUint64(&stats.RepeatedStatePruned, 1)
			trace.record(TraceEvent{Depth: depth, ParentFingerprint: parentFP, Symbol: sym, Reason: ReasonRepeatedState, OutputLength: len(childOut), Fingerprint: childFP})
			slog.Debug("generator: pruned", "depth", depth, "char", k, "symbol", string(sym), "reason", "repeated_state")
			continue
		}
		repeated.Add(childFP)

		probe, probeHit, err := stepCached(cache, child, encoding.OpOutput, stats)
		if err != nil {
			return nil, nil, err
		}
		out := probe.Output()
		reason := ReasonAccepted
		if childHit || probeHit {
			reason = ReasonCacheHit
		}

		if len(out) == k+1 && isPrefix(out, target) {
			winner := node{suffix: append(append([]byte{}, childSuffix...), encoding.OpOutput), snapshot: probe}
			winners = append(winners, winner)
			trace.record(TraceEvent{Depth: depth, ParentFingerprint: parentFP, Symbol: sym, Reason: reason, OutputLength: len(out), Fingerprint: probe.Fingerprint()})
			continue
		}
		next = append(next, node{suffix: childSuffix, snapshot: child})
		trace.record(TraceEvent{Depth: depth, ParentFingerprint: parentFP, Symbol: sym, Reason: reason, OutputLength: len(out), Fingerprint: childFP})
	}
	return winners, next, nil
}

// pickWinner applies the deterministic tie-break rule: shortest suffix,
// then lexicographic order over opcode_choices, then lowest fingerprint.
func pickWinner(winners []node, cfg Config) node {
	rank := make(map[byte]int, len(cfg.OpcodeChoices)+1)
	for i := 0; i < len(cfg.OpcodeChoices); i++ {
		rank[cfg.OpcodeChoices[i]] = i
	}
	rank[encoding.OpOutput] = len(cfg.OpcodeChoices)

	best := winners[0]
	for _, w := range winners[1:] {
		if winnerLess(w, best, rank) {
			best = w
		}
	}
	return best
}

func winnerLess(a, b node, rank map[byte]int) bool {
	if len(a.suffix) != len(b.suffix) {
		return len(a.suffix) < len(b.suffix)
	}
	for i := range a.suffix {
		ra, rb := rank[a.suffix[i]], rank[b.suffix[i]]
		if ra != rb {
			return ra < rb
		}
	}
	fa, fb := a.snapshot.Fingerprint(), b.snapshot.Fingerprint()
	if fa.Hi != fb.Hi {
		return fa.Hi < fb.Hi
	}
	return fa.Lo < fb.Lo
}
