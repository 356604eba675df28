package generator

// Stats is the generator's statistics record.
type Stats struct {
	Evaluations         uint64
	Pruned              uint64
	RepeatedStatePruned uint64
	CacheHits           uint64
	DurationNs          int64
	TraceLength         int
	PrunedRatio         float64
	RepeatedStateRatio  float64
}

func (s *Stats) finalize(traceLen int) {
	s.TraceLength = traceLen
	denom := s.Evaluations
	if denom == 0 {
		denom = 1
	}
	s.PrunedRatio = float64(s.Pruned) / float64(denom)
	prunedDenom := s.Pruned
	if prunedDenom == 0 {
		prunedDenom = 1
	}
	s.RepeatedStateRatio = float64(s.RepeatedStatePruned) / float64(prunedDenom)
}
