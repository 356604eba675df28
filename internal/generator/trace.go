package generator

import "github.com/rcornwell/malbolge/internal/machine"

// TraceReason is the enum driving the trace event record.
type TraceReason string

const (
	ReasonAccepted       TraceReason = "accepted"
	ReasonPrefixMismatch TraceReason = "prefix_mismatch"
	ReasonRepeatedState  TraceReason = "repeated_state"
	ReasonCacheHit       TraceReason = "cache_hit"
)

// TraceEvent records one candidate evaluation. Enabling Config.CaptureTrace
// roughly doubles generator memory usage.
type TraceEvent struct {
	Depth             int
	ParentFingerprint machine.Fingerprint
	Symbol            byte
	Reason            TraceReason
	OutputLength      int
	Fingerprint       machine.Fingerprint
}
