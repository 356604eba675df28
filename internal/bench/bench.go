// Package bench implements the fixed-corpus benchmark harness invoked by
// the `bench` CLI subcommand: timed interpreter runs, timed generator
// runs, or both, reported as a single JSON-serializable record with
// stable field names (benchmarks are JSON blobs).
package bench

import (
	"fmt"
	"time"

	"github.com/rcornwell/malbolge/internal/generator"
	"github.com/rcornwell/malbolge/internal/machine"
)

// Module selects which half of the toolkit a Run benchmarks.
type Module string

const (
	ModuleInterpreter Module = "interpreter"
	ModuleGenerator   Module = "generator"
	ModuleAll         Module = "all"
)

// interpreterCorpus is a small fixed set of opcode programs exercising
// distinct halt reasons. These are hand-written directly in this
// implementation's own opcode/encoding tables rather than a transcription
// of the historical canonical Malbolge "Hello World!" source: DESIGN.md
// ("Open Question decisions") notes the pack carried no authoritative byte-for-byte copy of
// the upstream T0/T1 permutation to reproduce, so a transcribed classic
// source would not decode correctly here. Constructing a program with
// chosen *output* by hand is themselves the generator's job (that's the
// whole reason the search exists), so this corpus only exercises halt
// behavior and step volume, not output content.
var interpreterCorpus = []string{
	"v",
	repeatOpcode('o', 50) + "v",
	repeatOpcode('o', 100), // no halt opcode: runs off the end
}

// generatorCorpus is a small fixed set of short synthesis targets.
var generatorCorpus = []string{"A", "Hi", "OK"}

func repeatOpcode(sym byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = sym
	}
	return string(b)
}

// InterpreterRun is one timed interpreter execution.
type InterpreterRun struct {
	Program    string
	HaltReason string
	Steps      uint64
	DurationNs int64
}

// GeneratorRun is one timed generator synthesis.
type GeneratorRun struct {
	Target     string
	Stats      generator.Stats
	DurationNs int64
}

// Report is the JSON-serializable benchmark record printed by `bench`.
type Report struct {
	Module          Module
	Interpreter     []InterpreterRun
	Generator       []GeneratorRun
	TotalDurationNs int64
}

// Run executes the fixed corpora named by module under cfg/gcfg and
// times each run.
func Run(module Module, cfg machine.Config, gcfg generator.Config) (Report, error) {
	start := time.Now()
	report := Report{Module: module}

	if module == ModuleInterpreter || module == ModuleAll {
		runs, err := runInterpreterCorpus(cfg)
		if err != nil {
			return Report{}, err
		}
		report.Interpreter = runs
	}
	if module == ModuleGenerator || module == ModuleAll {
		runs, err := runGeneratorCorpus(gcfg)
		if err != nil {
			return Report{}, err
		}
		report.Generator = runs
	}
	if len(report.Interpreter) == 0 && len(report.Generator) == 0 {
		return Report{}, fmt.Errorf("bench: unknown module %q", module)
	}

	report.TotalDurationNs = time.Since(start).Nanoseconds()
	return report, nil
}

func runInterpreterCorpus(cfg machine.Config) ([]InterpreterRun, error) {
	runs := make([]InterpreterRun, 0, len(interpreterCorpus))
	for _, program := range interpreterCorpus {
		start := time.Now()
		res, err := machine.Execute(cfg, program, false)
		if err != nil {
			return nil, fmt.Errorf("bench: interpreter: %w", err)
		}
		runs = append(runs, InterpreterRun{
			Program:    program,
			HaltReason: res.HaltReason.String(),
			Steps:      res.Steps,
			DurationNs: time.Since(start).Nanoseconds(),
		})
	}
	return runs, nil
}

func runGeneratorCorpus(cfg generator.Config) ([]GeneratorRun, error) {
	runs := make([]GeneratorRun, 0, len(generatorCorpus))
	for _, target := range generatorCorpus {
		start := time.Now()
		res, err := generator.GenerateForString([]byte(target), cfg)
		if err != nil {
			return nil, fmt.Errorf("bench: generator: %w", err)
		}
		runs = append(runs, GeneratorRun{
			Target:     target,
			Stats:      res.Stats,
			DurationNs: time.Since(start).Nanoseconds(),
		})
	}
	return runs, nil
}
