package debugger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"
)

// ConsoleReader drives an interactive line-editing prompt against d: a
// liner session with history and prefix completion, dispatching each
// line through ProcessCommand until a command requests quit or the
// prompt is aborted (Ctrl-D/Ctrl-C).
func ConsoleReader(d *Debugger, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCmd)

	for {
		input, err := line.Prompt("malbolge> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("debugger: error reading line", "error", err)
			return
		}
		line.AppendHistory(input)

		quit, output, err := ProcessCommand(d, input)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if output != "" {
			fmt.Fprintln(out, output)
		}
		if quit {
			return
		}
		if halted, reason := d.Halted(); halted {
			fmt.Fprintln(out, "machine halted:", reason)
		}
	}
}

// completeCmd offers command-name completions for the text entered so
// far, for line's tab-completion.
func completeCmd(partial string) []string {
	var out []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.name, partial) {
			out = append(out, c.name+" ")
		}
	}
	return out
}
