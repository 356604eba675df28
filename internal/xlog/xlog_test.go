package xlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Info("hello", slog.String("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "k=v") {
		t.Errorf("Handle output got: %q, missing message or attr", out)
	}
}

func TestHandlerDebugGate(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("Debug record was written with debug disabled: %q", buf.String())
	}

	var buf2 bytes.Buffer
	debugLogger := New(&buf2, true)
	debugLogger.Debug("visible")
	if !strings.Contains(buf2.String(), "visible") {
		t.Errorf("Debug record missing with debug enabled: %q", buf2.String())
	}
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false).With(slog.String("component", "test")).WithGroup("g")
	logger.Info("grouped", slog.Int("n", 1))
	out := buf.String()
	if !strings.Contains(out, "component=test") || !strings.Contains(out, "g.n=1") {
		t.Errorf("grouped output got: %q", out)
	}
}
