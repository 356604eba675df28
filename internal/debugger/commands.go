package debugger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// cmd is a single debugger command, matched by name prefix (min is the
// shortest prefix length accepted; a prefix that matches more than one
// command is rejected as ambiguous by ProcessCommand).
type cmd struct {
	name    string
	min     int
	process func(*Debugger, *cmdLine) (bool, string, error)
}

var cmdList = []cmd{
	{name: "step", min: 1, process: cmdStep},
	{name: "continue", min: 1, process: cmdContinue},
	{name: "break", min: 1, process: cmdBreak},
	{name: "clear", min: 1, process: cmdClear},
	{name: "show", min: 1, process: cmdShow},
	{name: "quit", min: 1, process: cmdQuit},
}

// cmdLine is a position-based cursor over one input line.
type cmdLine struct {
	line string
	pos  int
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) skipSpace() {
	for !l.isEOL() && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// getWord returns the next run of non-space characters, or "" at EOL.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// matchCommand reports whether name is a prefix of candidate's name at
// least candidate.min characters long.
func matchCommand(candidate cmd, name string) bool {
	if name == "" || len(name) > len(candidate.name) {
		return false
	}
	if !strings.HasPrefix(candidate.name, name) {
		return false
	}
	return len(name) >= candidate.min
}

func matchList(name string) []cmd {
	var matches []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			matches = append(matches, c)
		}
	}
	return matches
}

// ProcessCommand dispatches one input line against the command table.
// Returns (quit, output, error): quit signals the console loop should
// stop; output, when non-empty, is printed to the user.
func ProcessCommand(d *Debugger, line string) (bool, string, error) {
	l := &cmdLine{line: line}
	name := l.getWord()
	matches := matchList(name)
	switch len(matches) {
	case 0:
		return false, "", fmt.Errorf("unknown command: %q", name)
	case 1:
		return matches[0].process(d, l)
	default:
		return false, "", fmt.Errorf("ambiguous command: %q", name)
	}
}

func cmdStep(d *Debugger, l *cmdLine) (bool, string, error) {
	n := 1
	if word := l.getWord(); word != "" {
		v, err := strconv.Atoi(word)
		if err != nil || v <= 0 {
			return false, "", fmt.Errorf("step count must be a positive integer: %q", word)
		}
		n = v
	}
	executed := d.Step(n)
	return false, fmt.Sprintf("stepped %d (%s)", executed, d.Registers()), nil
}

func cmdContinue(d *Debugger, _ *cmdLine) (bool, string, error) {
	executed := d.Continue()
	return false, fmt.Sprintf("ran %d steps (%s)", executed, d.Registers()), nil
}

func cmdBreak(d *Debugger, l *cmdLine) (bool, string, error) {
	word := l.getWord()
	addr, err := strconv.ParseUint(word, 10, 32)
	if err != nil {
		return false, "", fmt.Errorf("breakpoint address must be a non-negative integer: %q", word)
	}
	d.SetBreakpoint(uint32(addr))
	return false, fmt.Sprintf("breakpoint set at %d", addr), nil
}

func cmdClear(d *Debugger, l *cmdLine) (bool, string, error) {
	word := l.getWord()
	addr, err := strconv.ParseUint(word, 10, 32)
	if err != nil {
		return false, "", fmt.Errorf("breakpoint address must be a non-negative integer: %q", word)
	}
	d.ClearBreakpoint(uint32(addr))
	return false, fmt.Sprintf("breakpoint cleared at %d", addr), nil
}

func cmdShow(d *Debugger, l *cmdLine) (bool, string, error) {
	switch what := l.getWord(); what {
	case "", "registers":
		return false, d.Registers(), nil
	case "output":
		return false, d.Output(), nil
	case "halt":
		halted, reason := d.Halted()
		return false, fmt.Sprintf("halted=%v reason=%s", halted, reason), nil
	default:
		return false, "", errors.New("show: unknown target: " + what)
	}
}

func cmdQuit(_ *Debugger, _ *cmdLine) (bool, string, error) {
	return true, "", nil
}
