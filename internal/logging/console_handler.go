package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// prettyHandler renders records as a one-line header followed by indented
// fields:
//
//	2026-10-18 09:12:01 INFO [organizer] – moved
//	    - File: report.pdf
//	    - Category: Documents
type prettyHandler struct {
	out       *lockedWriter
	level     slog.Leveler
	preset    []field
	prefix    string
	addSource bool
}

// lockedWriter serializes writes from handlers derived via WithAttrs.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) write(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(p)
	return err
}

// field is one flattened attribute; group names are folded into key.
type field struct {
	key   string
	value slog.Value
}

func newPrettyHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &prettyHandler{out: &lockedWriter{w: w}, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.Enabled(ctx, record.Level) {
		return nil
	}

	fields := append([]field(nil), h.preset...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.prefix, attr)
		return true
	})
	component, fields := takeComponent(fields)
	fields = collapseDuplicates(fields)

	var b strings.Builder
	b.WriteString(h.header(record, component))
	b.WriteByte('\n')
	if record.Level < slog.LevelInfo {
		for _, f := range fields {
			fmt.Fprintf(&b, "    %s: %s\n", f.key, formatValue(f.value))
		}
	} else {
		for _, f := range selectInfoFields(fields) {
			fmt.Fprintf(&b, "    - %s: %s\n", f.label, f.value)
		}
	}
	return h.out.write([]byte(b.String()))
}

func (h *prettyHandler) header(record slog.Record, component string) string {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	parts := []string{formatTimestamp(ts), levelLabel(record.Level)}
	if component != "" {
		parts = append(parts, "["+component+"]")
	}
	parts = append(parts, "–", message)
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			parts = append(parts, fmt.Sprintf("[%s:%d]", filepath.Base(src.File), src.Line))
		}
	}
	return strings.Join(parts, " ")
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = append([]field(nil), h.preset...)
	for _, attr := range attrs {
		next.preset = appendField(next.preset, h.prefix, attr)
	}
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// takeComponent removes every component field and returns the first value.
func takeComponent(fields []field) (string, []field) {
	var component string
	rest := fields[:0:0]
	for _, f := range fields {
		if f.key != FieldComponent {
			rest = append(rest, f)
			continue
		}
		if component == "" {
			component = attrString(f.value)
		}
	}
	return component, rest
}

// collapseDuplicates keeps the first position of each key and the last value.
func collapseDuplicates(fields []field) []field {
	index := make(map[string]int, len(fields))
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if i, seen := index[f.key]; seen {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func appendField(dst []field, prefix string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = prefix + attr.Key + "."
		}
		for _, member := range value.Group() {
			dst = appendField(dst, inner, member)
		}
		return dst
	}
	key := attr.Key
	if key != "" {
		key = prefix + key
	}
	return append(dst, field{key: key, value: value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
