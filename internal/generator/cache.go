package generator

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"github.com/rcornwell/malbolge/internal/machine"
)

// cacheKey identifies a single search-tree edge: stepping the machine at
// parentFingerprint by appending symbol. Grounded on ProbeChain-go-probe's
// consensus/pob snapshot cache (a bounded recency cache keyed by block
// hash); here the key is a (fingerprint, symbol) pair instead.
type cacheKey struct {
	fp     machine.Fingerprint
	symbol byte
}

// snapshotCache wraps the pack's non-generic hashicorp/golang-lru cache,
// keyed by cacheKey, storing the resulting *machine.Snapshot. It is safe
// for concurrent use — *lru.Cache guards its own internal state — which
// the parallel sibling-expansion worker pool relies on.
type snapshotCache struct {
	c *lru.Cache
}

func newSnapshotCache(size int) (*snapshotCache, error) {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &snapshotCache{c: c}, nil
}

func (s *snapshotCache) get(key cacheKey) (*machine.Snapshot, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	slog.Debug("generator: snapshot cache hit", "symbol", string(key.symbol))
	return v.(*machine.Snapshot), true
}

func (s *snapshotCache) add(key cacheKey, snap *machine.Snapshot) {
	s.c.Add(key, snap)
}
