package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
)

// lockedDiscard is a writer safe for the concurrent log output of a running
// daemon.
type lockedDiscard struct{ mu sync.Mutex }

func (w *lockedDiscard) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(p), nil
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Watched directory", statusWarn, "missing", false)
	want := fmt.Sprintf("  %-*s %s", statusLabelWidth, "Watched directory:", "[WARN] missing")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("State directory", statusOK, "", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
	if !strings.Contains(got, "[OK]") {
		t.Fatalf("missing status tag: %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Name", "Count"}, [][]string{{"only-name"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "only-name") || !strings.Contains(strings.ToLower(out), "count") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
