// Package logging assembles the structured slog loggers used by dlsort.
//
// It owns the console and JSON handlers, level and output plumbing, the
// run-id tagging applied to daemon runs, and retention of old run logs.
// WarnWithContext and ErrorWithContext always attach an event type and a
// hint; warnings also state their impact.
package logging
