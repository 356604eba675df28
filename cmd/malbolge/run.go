package main

import (
	"encoding/json"
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/malbolge/internal/debugger"
	"github.com/rcornwell/malbolge/internal/encoding"
	"github.com/rcornwell/malbolge/internal/machine"
)

// runRun implements the `run` subcommand: load
// a program from one of four mutually-exclusive sources and either run
// it to completion or step it interactively.
func runRun(args []string) error {
	defer swapArgs(args)()

	optOpcodes := getopt.StringLong("opcodes", 'o', "", "Opcode string")
	optAscii := getopt.StringLong("ascii", 'a', "", "ASCII source string")
	optAsciiFile := getopt.StringLong("ascii-file", 0, "", "Path to ASCII source file")
	optOpcodesFile := getopt.StringLong("opcodes-file", 0, "", "Path to opcode string file")
	optCycleLimit := getopt.IntLong("cycle-limit", 0, 0, "Cycle-detection tracking limit (0 = default)")
	optNoCycle := getopt.BoolLong("no-cycle-detection", 0, "Disable cycle detection")
	optInteractive := getopt.BoolLong("interactive", 'i', "Step the program interactively")
	optLog := getopt.StringLong("log", 'l', "", "Log file (default: stderr)")
	optDebug := getopt.BoolLong("debug", 0, "Enable debug-level logging")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return nil
	}

	opcodes, err := loadProgram(*optOpcodes, *optAscii, *optAsciiFile, *optOpcodesFile)
	if err != nil {
		return err
	}

	_, closeLog, err := bootstrapLogger(*optLog, *optDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := machine.DefaultConfig()
	if *optNoCycle {
		cfg.CycleDetectionLimit = 0
	} else if *optCycleLimit > 0 {
		cfg.CycleDetectionLimit = uint32(*optCycleLimit)
	}

	if *optInteractive {
		m, err := machine.New(cfg, opcodes)
		if err != nil {
			return fmt.Errorf("malbolge run: %w", err)
		}
		debugger.ConsoleReader(debugger.New(m), os.Stdout)
		return nil
	}

	res, err := machine.Execute(cfg, opcodes, false)
	if err != nil {
		return fmt.Errorf("malbolge run: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// loadProgram resolves exactly one of the four mutually-exclusive
// program sources into an opcode string.
func loadProgram(opcodes, ascii, asciiFile, opcodesFile string) (string, error) {
	sources := 0
	for _, s := range []string{opcodes, ascii, asciiFile, opcodesFile} {
		if s != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		return "", fmt.Errorf("malbolge run: one of --opcodes, --ascii, --ascii-file, --opcodes-file is required")
	case sources > 1:
		return "", fmt.Errorf("malbolge run: --opcodes, --ascii, --ascii-file, --opcodes-file are mutually exclusive")
	}

	switch {
	case opcodes != "":
		return opcodes, nil
	case ascii != "":
		return encoding.DecodeASCII(ascii)
	case asciiFile != "":
		data, err := os.ReadFile(asciiFile)
		if err != nil {
			return "", fmt.Errorf("malbolge run: reading %s: %w", asciiFile, err)
		}
		return encoding.DecodeASCII(string(data))
	default:
		data, err := os.ReadFile(opcodesFile)
		if err != nil {
			return "", fmt.Errorf("malbolge run: reading %s: %w", opcodesFile, err)
		}
		return string(data), nil
	}
}
