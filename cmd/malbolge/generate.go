package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/malbolge/internal/generator"
)

// runGenerate implements the `generate` subcommand: flags are registered
// against the package-level getopt.CommandLine, with os.Args temporarily
// rewritten so getopt.Parse() sees only this subcommand's arguments.
func runGenerate(args []string) error {
	defer swapArgs(args)()

	optText := getopt.StringLong("text", 't', "", "Target string to synthesize a program for")
	optSeed := getopt.StringLong("seed", 's', "", "Deterministic PRNG seed (decimal)")
	optDepth := getopt.IntLong("max-depth", 'd', 0, "Per-character bounded search depth (0 = default)")
	optOpcodes := getopt.StringLong("opcodes", 'o', "", "Construction opcode alphabet (subset of o, p, *)")
	optTrace := getopt.BoolLong("trace", 0, "Capture per-evaluation trace events")
	optLog := getopt.StringLong("log", 'l', "", "Log file (default: stderr)")
	optDebug := getopt.BoolLong("debug", 0, "Enable debug-level logging")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return nil
	}
	if *optText == "" {
		return fmt.Errorf("malbolge generate: --text is required")
	}

	_, closeLog, err := bootstrapLogger(*optLog, *optDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := generator.DefaultConfig()
	if *optSeed != "" {
		seed, err := strconv.ParseUint(*optSeed, 10, 64)
		if err != nil {
			return fmt.Errorf("malbolge generate: --seed must be a non-negative integer: %w", err)
		}
		cfg.RandomSeed = &seed
	}
	if *optDepth > 0 {
		cfg.MaxSearchDepth = *optDepth
	}
	if *optOpcodes != "" {
		cfg.OpcodeChoices = *optOpcodes
	}
	cfg.CaptureTrace = *optTrace

	res, err := generator.GenerateForString([]byte(*optText), cfg)
	if err != nil {
		return fmt.Errorf("malbolge generate: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
