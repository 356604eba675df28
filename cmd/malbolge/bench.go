package main

import (
	"encoding/json"
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/malbolge/internal/bench"
	"github.com/rcornwell/malbolge/internal/generator"
	"github.com/rcornwell/malbolge/internal/machine"
)

// runBench implements the `bench` subcommand.
func runBench(args []string) error {
	defer swapArgs(args)()

	optModule := getopt.StringLong("module", 'm', "all", "Module to benchmark: interpreter, generator, or all")
	optLog := getopt.StringLong("log", 'l', "", "Log file (default: stderr)")
	optDebug := getopt.BoolLong("debug", 0, "Enable debug-level logging")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return nil
	}

	module := bench.Module(*optModule)
	switch module {
	case bench.ModuleInterpreter, bench.ModuleGenerator, bench.ModuleAll:
	default:
		return fmt.Errorf("malbolge bench: --module must be one of interpreter, generator, all (got %q)", *optModule)
	}

	_, closeLog, err := bootstrapLogger(*optLog, *optDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	report, err := bench.Run(module, machine.DefaultConfig(), generator.DefaultConfig())
	if err != nil {
		return fmt.Errorf("malbolge bench: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
