package logging

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

type infoField struct {
	label string
	value string
}

const logTimestampLayout = "2006-01-02 15:04:05"

// Highlighted keys are printed first, in this order; the rest follow in
// record order.
var infoHighlightKeys = []string{
	FieldFile,
	FieldCategory,
	FieldDestination,
	FieldReason,
	FieldMode,
	"error",
	FieldErrorHint,
	FieldImpact,
}

// Keys that only matter when reading raw logs. Debug records still show them.
func isDebugOnlyKey(key string) bool {
	switch key {
	case "", FieldRunID, FieldEventType:
		return true
	}
	return false
}

func selectInfoFields(fields []field) []infoField {
	shown := make(map[int]bool, len(fields))
	result := make([]infoField, 0, len(fields))
	emit := func(i int) {
		shown[i] = true
		key := fields[i].key
		result = append(result, infoField{label: displayLabel(key), value: formatValueForKey(key, fields[i].value)})
	}
	for _, key := range infoHighlightKeys {
		if i := slices.IndexFunc(fields, func(f field) bool { return f.key == key }); i >= 0 {
			emit(i)
		}
	}
	for i, f := range fields {
		if !shown[i] && !isDebugOnlyKey(f.key) {
			emit(i)
		}
	}
	return result
}

func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	switch {
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case v.Kind() == slog.KindDuration:
		return formatDurationHuman(v.Duration())
	case key == "error":
		return truncate(attrString(v), 200)
	}
	return formatValue(v)
}

func displayLabel(key string) string {
	switch key {
	case FieldErrorHint:
		return "Hint"
	case FieldDestination:
		return "To"
	case "error":
		return "Error"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, " ")
}

func formatDurationHuman(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return strconv.FormatFloat(d.Seconds(), 'f', 1, 64) + "s"
	default:
		return d.Round(time.Second).String()
	}
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) > max {
		return value[:max] + "…"
	}
	return value
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(logTimestampLayout)
}

func attrString(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return formatTimestamp(v.Time())
	}
	return quoteIfNeeded(attrString(v))
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r < ' ' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}
