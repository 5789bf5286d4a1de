package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	watchDir   string
	stateDir   string
	configPath string
}

// setupCLITestEnv isolates HOME and the working directory and writes a
// scan-only config whose watched directory lives under a temp dir. extra is
// appended verbatim after the [watch] table.
func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:    base,
		watchDir:   filepath.Join(base, "downloads"),
		stateDir:   filepath.Join(base, "state"),
		configPath: filepath.Join(base, "dlsort.toml"),
	}
	if err := os.MkdirAll(env.watchDir, 0o755); err != nil {
		t.Fatalf("mkdir watch dir: %v", err)
	}

	content := fmt.Sprintf(`[paths]
watch_dir = %q
state_dir = %q

[organize]
min_age_seconds = 0.0

[watch]
enabled = false
mode = "poll"
poll_interval_seconds = 0.05
%s`, env.watchDir, env.stateDir, extra)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDownload(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func requireContains(t *testing.T, output string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(output, part) {
			t.Fatalf("expected output to contain %q\noutput:\n%s", part, output)
		}
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}
