// Command malbolge is the CLI boundary over the malbolge facade package:
// generate Malbolge programs for a target string, run existing programs,
// and benchmark both. Flags are parsed with getopt against a bootstrapped
// slog logger; each verb dispatches to its own subcommand handler.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rcornwell/malbolge/internal/xlog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "run":
		err = runRun(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: malbolge <generate|run|bench> [flags]")
}

// swapArgs rewrites os.Args to [prog, subcommandArgs...] so the
// package-level getopt.CommandLine — a single process-wide flag set —
// parses only the current subcommand's flags. Returns a restore func.
func swapArgs(subArgs []string) func() {
	saved := os.Args
	os.Args = append([]string{saved[0]}, subArgs...)
	return func() { os.Args = saved }
}

// bootstrapLogger installs the default logger per debug/logFile: a file
// destination when named, stderr otherwise.
func bootstrapLogger(logFile string, debug bool) (*slog.Logger, func(), error) {
	dest := os.Stderr
	closeFn := func() {}
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("malbolge: opening log file: %w", err)
		}
		dest = f
		closeFn = func() { f.Close() }
	}
	logger := xlog.New(dest, debug)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
