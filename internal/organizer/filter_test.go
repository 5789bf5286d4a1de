package organizer_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dlsort/internal/organizer"
	"dlsort/internal/testsupport"
)

func TestFilterSkipsNamesBeforeTouchingDisk(t *testing.T) {
	dir := t.TempDir()
	filter := organizer.Filter{IgnoreHidden: true}

	cases := map[string]string{
		".DS_Store":              organizer.ReasonSkipName,
		"Thumbs.db":              organizer.ReasonSkipName,
		".secret":                organizer.ReasonHidden,
		"movie.mp4.crdownload":   organizer.ReasonTransient,
		"installer.dmg.download": organizer.ReasonTransient,
		"big.iso.PART":           organizer.ReasonTransient,
		"missing.pdf":            organizer.ReasonVanished,
	}
	for name, want := range cases {
		ok, reason := filter.Check(filepath.Join(dir, name))
		if ok || reason != want {
			t.Fatalf("Check(%q) = %v/%q, want false/%q", name, ok, reason, want)
		}
	}
}

func TestFilterHiddenPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.txt")
	testsupport.WriteAged(t, path, time.Hour)

	if ok, _ := (organizer.Filter{IgnoreHidden: true}).Check(path); ok {
		t.Fatal("hidden file must be skipped when policy enabled")
	}
	if ok, reason := (organizer.Filter{IgnoreHidden: false}).Check(path); !ok {
		t.Fatalf("hidden file must be eligible when policy disabled, got %q", reason)
	}
	if ok, _ := (organizer.Filter{IgnoreHidden: false}).Check(filepath.Join(dir, ".DS_Store")); ok {
		t.Fatal("skip set applies regardless of hidden policy")
	}
}

func TestFilterRejectsDirectoriesAndSymlinks(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "folder.zip")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	filter := organizer.Filter{MinAge: 0}
	if ok, reason := filter.Check(sub); ok || reason != organizer.ReasonNotRegular {
		t.Fatalf("directory must be ineligible, got %v/%q", ok, reason)
	}

	target := filepath.Join(dir, "thesis.pdf")
	testsupport.WriteFile(t, target, 4)
	links := map[string]string{
		"link.pdf":     target,
		"dangling.pdf": filepath.Join(dir, "gone"),
	}
	for name, dest := range links {
		link := filepath.Join(dir, name)
		if err := os.Symlink(dest, link); err != nil {
			t.Fatalf("symlink: %v", err)
		}
		if ok, reason := filter.Check(link); ok || reason != organizer.ReasonNotRegular {
			t.Fatalf("%s: symlink must be ineligible, got %v/%q", name, ok, reason)
		}
	}
	if ok, reason := filter.Check(filepath.Join(dir, "missing.pdf")); ok || reason != organizer.ReasonVanished {
		t.Fatalf("missing entry must count as vanished, got %v/%q", ok, reason)
	}
}

func TestFilterSettlingWithSimulatedClock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fresh.pdf")
	testsupport.WriteFile(t, path, 32)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	now := info.ModTime().Add(time.Second)
	filter := organizer.Filter{MinAge: 3 * time.Second, Now: func() time.Time { return now }}

	if ok, reason := filter.Check(path); ok || reason != organizer.ReasonSettling {
		t.Fatalf("1s old file must be settling, got %v/%q", ok, reason)
	}
	if got := filter.Remaining(info.ModTime()); got != 2*time.Second {
		t.Fatalf("expected 2s remaining, got %s", got)
	}

	now = info.ModTime().Add(3 * time.Second)
	if ok, reason := filter.Check(path); !ok {
		t.Fatalf("file at min age must be eligible, got %q", reason)
	}
}

func TestIsTransient(t *testing.T) {
	for _, name := range []string{"a.part", "b.partial", "c.TMP", "d.zip.download"} {
		if !organizer.IsTransient(name) {
			t.Fatalf("%q should be transient", name)
		}
	}
	for _, name := range []string{"part", "a.tmpx", "partial.pdf"} {
		if organizer.IsTransient(name) {
			t.Fatalf("%q should not be transient", name)
		}
	}
}
