package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dlsort/internal/faults"
	"dlsort/internal/logging"
)

func TestRootScanOnlyOrganizesAndLogs(t *testing.T) {
	env := setupCLITestEnv(t, "")
	writeDownload(t, env.watchDir, "report.PDF")
	writeDownload(t, env.watchDir, "backup.tar.gz")
	writeDownload(t, env.watchDir, "mystery.xyz")

	stdout, _, err := runCLI(t, env.configPath)
	if err != nil {
		t.Fatalf("dlsort: %v", err)
	}
	requireExists(t, filepath.Join(env.watchDir, "Documents", "report.PDF"))
	requireExists(t, filepath.Join(env.watchDir, "Archives", "backup.tar.gz"))
	requireExists(t, filepath.Join(env.watchDir, "Other", "mystery.xyz"))
	requireContains(t, stdout, "organizing downloads", "moved", "startup scan complete")

	logDir := filepath.Join(env.stateDir, "logs")
	matches, err := filepath.Glob(filepath.Join(logDir, logging.RunLogPattern))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one run log, got %v (err %v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	requireContains(t, string(data), `"run_id":`, `"msg":"moved"`)
}

func TestRootDryRunFlag(t *testing.T) {
	env := setupCLITestEnv(t, "")
	path := writeDownload(t, env.watchDir, "clip.mp4")

	stdout, _, err := runCLI(t, env.configPath, "--dry-run")
	if err != nil {
		t.Fatalf("dlsort --dry-run: %v", err)
	}
	requireExists(t, path)
	if _, err := os.Stat(filepath.Join(env.watchDir, "Videos")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run created a category folder: %v", err)
	}
	requireContains(t, stdout, "dry run: would move")
}

func TestRootMissingWatchDirFails(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if err := os.RemoveAll(env.watchDir); err != nil {
		t.Fatalf("remove watch dir: %v", err)
	}

	_, _, err := runCLI(t, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing watched directory")
	}
	if !faults.IsFatal(err) {
		t.Fatalf("expected setup error, got %v", err)
	}
	requireContains(t, err.Error(), "watch folder does not exist")
}

func TestRootWatchModeStopsOnCancel(t *testing.T) {
	env := setupCLITestEnv(t, "")
	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	enabled := strings.Replace(string(content), "enabled = false", "enabled = true", 1)
	if err := os.WriteFile(env.configPath, []byte(enabled), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetOut(&lockedDiscard{})
	cmd.SetErr(&lockedDiscard{})
	cmd.SetArgs([]string{"--config", env.configPath})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	writeDownload(t, env.watchDir, "song.flac")
	target := filepath.Join(env.watchDir, "Audio", "song.flac")
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(target); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("file not organized while watching")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("dlsort returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("dlsort did not stop after cancel")
	}
}

func TestInvalidConfigFallsBackToDefaults(t *testing.T) {
	env := setupCLITestEnv(t, "\n[categories]\nA = [\"zip\"]\nB = [\"ZIP\"]\n")

	stdout, stderr, err := runCLI(t, env.configPath, "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	requireContains(t, stderr, "warn:", "more than one category", "built-in defaults")
	requireContains(t, stdout, "Images", "Fonts")
}

func TestScanCommand(t *testing.T) {
	env := setupCLITestEnv(t, "")
	writeDownload(t, env.watchDir, "photo.heic")
	writeDownload(t, env.watchDir, "setup.exe")
	writeDownload(t, env.watchDir, ".hidden")

	stdout, _, err := runCLI(t, env.configPath, "scan", "--json")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var result scanResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("decode scan output: %v\n%s", err, stdout)
	}
	if result.Scanned != 3 || result.Moved != 2 || result.Skipped != 1 || result.DryRun {
		t.Fatalf("unexpected summary %+v", result)
	}
	requireExists(t, filepath.Join(env.watchDir, "Images", "photo.heic"))
	requireExists(t, filepath.Join(env.watchDir, "Installers", "setup.exe"))
	requireExists(t, filepath.Join(env.watchDir, ".hidden"))
}

func TestScanCommandDryRunTable(t *testing.T) {
	env := setupCLITestEnv(t, "")
	path := writeDownload(t, env.watchDir, "deck.pptx")

	stdout, _, err := runCLI(t, env.configPath, "scan", "--dry-run")
	if err != nil {
		t.Fatalf("scan --dry-run: %v", err)
	}
	requireExists(t, path)
	requireContains(t, strings.ToLower(stdout), "would move", "dry run: no files were moved.")
}

func TestClassifyCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, "")
	writeDownload(t, env.watchDir, "present.csv")
	writeDownload(t, env.watchDir, "partial.part")

	stdout, _, err := runCLI(t, env.configPath, "classify", "--json",
		"Holiday.JPG", "bundle.tar.gz", "README", "present.csv", "partial.part")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var results []classification
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("decode classify output: %v\n%s", err, stdout)
	}
	want := []struct {
		category string
		present  bool
		eligible bool
	}{
		{"Images", false, false},
		{"Archives", false, false},
		{"Other", false, false},
		{"Spreadsheets", true, true},
		{"Other", true, false},
	}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, w := range want {
		got := results[i]
		if got.Category != w.category || got.Present != w.present || got.Eligible != w.eligible {
			t.Fatalf("result %d (%s) = %+v, want %+v", i, got.Name, got, w)
		}
	}
	if results[4].Reason == "" {
		t.Fatal("expected a skip reason for the partial download")
	}
	if results[1].Destination != filepath.Join(env.watchDir, "Archives", "bundle.tar.gz") {
		t.Fatalf("unexpected destination %s", results[1].Destination)
	}
}

func TestClassifyRequiresArgs(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if _, _, err := runCLI(t, env.configPath, "classify"); err == nil {
		t.Fatal("expected error without names")
	}
}

func TestCategoriesCommandCustomMapping(t *testing.T) {
	env := setupCLITestEnv(t, "\n[categories]\nBooks = [\"epub\", \"mobi\"]\nLoose = [\"\"]\n")

	stdout, stderr, err := runCLI(t, env.configPath, "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if stderr != "" {
		t.Fatalf("unexpected warning: %s", stderr)
	}
	requireContains(t, stdout, "Books", ".epub .mobi", "Loose", "(no extension)", "Other", "(anything unmatched)")
	if strings.Contains(stdout, "Images") {
		t.Fatalf("custom mapping should replace defaults:\n%s", stdout)
	}
}

func TestConfigInitCommand(t *testing.T) {
	env := setupCLITestEnv(t, "")
	target := filepath.Join(env.baseDir, "generated", "config.toml")

	stdout, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, "Wrote sample configuration to "+target)
	requireExists(t, target)

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	stdout, _, err = runCLI(t, target, "config", "validate")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigValidateCommand(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if err := os.MkdirAll(env.stateDir, 0o755); err != nil {
		t.Fatalf("mkdir state dir: %v", err)
	}

	stdout, _, err := runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout,
		"Config path: "+env.configPath,
		"Config file present: yes",
		"Watched directory: "+env.watchDir,
		"[OK]",
		"Configuration valid",
	)
}

func TestConfigValidateWarnsOnUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t, "\n[mappings]\npdf = \"Docs\"\n")
	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	legacy := append([]byte("downloads_dir = \"~/Inbox\"\n\n"), content...)
	if err := os.WriteFile(env.configPath, legacy, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdout, _, err := runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout,
		"Unknown keys:",
		"ignored: downloads_dir, mappings",
		"Configuration valid",
	)
}

func TestConfigValidateRejectsConflicts(t *testing.T) {
	env := setupCLITestEnv(t, "\n[categories]\nA = [\"zip\"]\nB = [\".zip\"]\n")

	_, _, err := runCLI(t, env.configPath, "config", "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, err.Error(), ".zip claimed by A, B")
}
