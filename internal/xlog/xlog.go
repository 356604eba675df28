// Package xlog is a thin wrapper over log/slog, adapted from the
// project's emulator ancestor: a single text handler guarded by one
// shared mutex across WithAttrs/WithGroup clones, with a debug gate that
// controls whether Debug-level records reach the output at all.
package xlog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler formats records as "timestamp LEVEL: message attr attr ...",
// one line per record, writing to a single destination.
type Handler struct {
	out   io.Writer
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
	debug bool
}

var _ slog.Handler = (*Handler)(nil)

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debug
	}
	return true
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		out:   h.out,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
		group: h.group,
		mu:    h.mu,
		debug: h.debug,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &Handler{out: h.out, attrs: h.attrs, group: group, mu: h.mu, debug: h.debug}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	parts := make([]string, 0, 3+r.NumAttrs()+len(h.attrs))
	parts = append(parts, r.Time.Format("2006/01/02 15:04:05"), r.Level.String()+":", r.Message)

	for _, a := range h.attrs {
		parts = append(parts, formatAttr(h.group, a))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, formatAttr(h.group, a))
		return true
	})

	line := strings.Join(parts, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write([]byte(line))
	return err
}

func formatAttr(group string, a slog.Attr) string {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + a.Value.String()
}

// New builds a *slog.Logger over Handler, writing to dest. debug, when
// true, also surfaces Debug-level records (internal/machine and
// internal/generator log cache hits and pruning decisions at that
// level, so default runs stay quiet).
func New(dest io.Writer, debug bool) *slog.Logger {
	return slog.New(&Handler{out: dest, mu: &sync.Mutex{}, debug: debug})
}
