package generator

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rcornwell/malbolge/internal/encoding"
	"github.com/rcornwell/malbolge/internal/machine"
)

// GenerationResult is the generator's result record.
type GenerationResult struct {
	Opcodes       string
	AsciiSource   string
	Target        []byte
	MachineOutput []byte
	Stats         Stats
	Trace         []TraceEvent
}

// GenerateForString drives the bootstrap and per-character layered search
// to discover an opcode program whose output equals target, then
// verifies it once against a fresh interpreter before returning.
func GenerateForString(target []byte, cfg Config) (GenerationResult, error) {
	if cfg.MaxSearchDepth <= 0 {
		cfg.MaxSearchDepth = DefaultConfig().MaxSearchDepth
	}
	if cfg.OpcodeChoices == "" {
		cfg.OpcodeChoices = defaultOpcodeChoices
	}
	ctx := cfg.ctx()
	start := time.Now()

	r := newRNG(seedFor(cfg))

	cache, err := newSnapshotCache(cfg.SnapshotCacheSize)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generator: %w", err)
	}
	trace := &traceRecorder{enabled: cfg.CaptureTrace}
	stats := &Stats{}

	frontier, err := bootstrap(cfg)
	if err != nil {
		return GenerationResult{}, err
	}

	program := []byte{bootstrapJump}
	for i := 0; i < bootstrapNopRuns; i++ {
		program = append(program, encoding.OpNop)
	}
	for k := 0; k < len(target); k++ {
		if err := ctx.Err(); err != nil {
			return GenerationResult{}, ErrCancelled
		}
		winnerSnap, suffix, err := searchCharacter(ctx, frontier, target, k, cfg, r, cache, stats, trace)
		if err != nil {
			return GenerationResult{}, err
		}
		program = append(program, suffix...)
		if cfg.MaxProgramLength > 0 && uint32(len(program)+1) > cfg.MaxProgramLength {
			return GenerationResult{}, fmt.Errorf("%w: program length %d (with halt) exceeds MaxProgramLength %d", ErrGenerationExhausted, len(program)+1, cfg.MaxProgramLength)
		}
		frontier = winnerSnap
	}
	program = append(program, encoding.OpHalt)

	result, err := machine.Execute(cfg.Machine, string(program), false)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generator: verification: %w", err)
	}
	if string(result.Output) != string(target) {
		return GenerationResult{}, fmt.Errorf("%w: got %q want %q", ErrVerificationFailed, result.Output, target)
	}

	stats.DurationNs = time.Since(start).Nanoseconds()
	stats.finalize(len(trace.events))

	ascii, err := encoding.EncodeASCII(string(program))
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generator: %w", err)
	}

	return GenerationResult{
		Opcodes:       string(program),
		AsciiSource:   ascii,
		Target:        append([]byte(nil), target...),
		MachineOutput: result.Output,
		Stats:         *stats,
		Trace:         trace.events,
	}, nil
}

// seedFor resolves the PRNG seed: the configured one, or a fresh one
// drawn from the OS CSPRNG when determinism across runs isn't requested.
func seedFor(cfg Config) uint64 {
	if cfg.RandomSeed != nil {
		return *cfg.RandomSeed
	}
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(b[:])
}

// bootstrap primes a fresh machine with the fixed prefix P0 (one `i`
// followed by 99 `o`s) and returns its terminal
// snapshot as the root frontier for character 0. Unlike normal fixed-
// program execution, this must not trip end_of_program as the program
// grows one opcode at a time — machine.StepSymbol is built for exactly
// that (see internal/machine's endOfProgramArmed).
func bootstrap(cfg Config) (*machine.Snapshot, error) {
	snap := machine.NewEmpty(cfg.Machine).Capture()
	snap, err := machine.StepSymbol(snap, bootstrapJump)
	if err != nil {
		return nil, fmt.Errorf("generator: bootstrap: %w", err)
	}
	for i := 0; i < bootstrapNopRuns; i++ {
		snap, err = machine.StepSymbol(snap, encoding.OpNop)
		if err != nil {
			return nil, fmt.Errorf("generator: bootstrap: %w", err)
		}
	}
	return snap, nil
}

// searchCharacter finds, for target[k], a winning opcode suffix from
// frontier: first the bounded D-depth tree search, then randomized
// extension, redrawing and re-searching from an
// ever-growing randomized prefix until a winner is found or
// MaxRandomDrawsPerChar is exceeded.
func searchCharacter(ctx context.Context, frontier *machine.Snapshot, target []byte, k int, cfg Config, r *rng, cache *snapshotCache, stats *Stats, trace *traceRecorder) (*machine.Snapshot, []byte, error) {
	var randPrefix []byte
	var draws uint32

	for {
		base := frontier
		if len(randPrefix) > 0 {
			var err error
			base, err = applyPrefix(frontier, randPrefix)
			if err != nil {
				return nil, nil, err
			}
		}

		winner, err := boundedSearch(ctx, base, target, k, cfg, cache, stats, trace)
		if err != nil {
			return nil, nil, err
		}
		if winner != nil {
			full := append(append([]byte{}, randPrefix...), winner.suffix...)
			return winner.snapshot, full, nil
		}

		draws++
		if draws > cfg.effectiveMaxRandomDraws() {
			return nil, nil, fmt.Errorf("%w: character %d (%q) after %d randomized draws", ErrGenerationExhausted, k, target[k], draws-1)
		}
		sym := cfg.OpcodeChoices[r.intn(len(cfg.OpcodeChoices))]
		randPrefix = append(randPrefix, sym)
	}
}

func applyPrefix(base *machine.Snapshot, prefix []byte) (*machine.Snapshot, error) {
	cur := base
	for _, sym := range prefix {
		snap, err := machine.StepSymbol(cur, sym)
		if err != nil {
			return nil, fmt.Errorf("generator: randomized extension: %w", err)
		}
		cur = snap
	}
	return cur, nil
}
