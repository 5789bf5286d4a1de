package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"dlsort/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCategoryFolders(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "Images"), 0o755); err != nil {
		t.Fatal(err)
	}
	if r := CheckCategoryFolders(root, []string{"Images", "Videos"}); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if err := os.WriteFile(filepath.Join(root, "Videos"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckCategoryFolders(root, []string{"Images", "Videos"}); r.Passed {
		t.Fatal("expected failure when a file occupies a category name")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatalf("expected nil, got %v", results)
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(base, "downloads")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	for _, dir := range []string{cfg.Paths.WatchDir, cfg.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	results := RunAll(&cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_MissingWatchDirSkipsFolderCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(t.TempDir(), "missing")
	cfg.Paths.StateDir = t.TempDir()

	results := RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 1 || failed[0].Name != "Watched directory" {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}
