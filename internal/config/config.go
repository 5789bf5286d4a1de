package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"dlsort/internal/faults"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WatchDir string `toml:"watch_dir"`
	StateDir string `toml:"state_dir"`
}

// Organize contains the classification and move policy.
type Organize struct {
	OtherFolder   string  `toml:"other_folder"`
	IgnoreHidden  bool    `toml:"ignore_hidden"`
	MinAgeSeconds float64 `toml:"min_age_seconds"`
	DryRun        bool    `toml:"dry_run"`
	ScanExisting  bool    `toml:"scan_existing"`
}

// Watch contains configuration for continuous mode.
type Watch struct {
	Enabled             bool    `toml:"enabled"`
	Mode                string  `toml:"mode"`
	PollIntervalSeconds float64 `toml:"poll_interval_seconds"`
	SettleAttempts      int     `toml:"settle_attempts"`
	Workers             int     `toml:"workers"`
	MaxEventsPerSecond  float64 `toml:"max_events_per_second"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for dlsort.
//
// Configuration sections:
//   - Paths: watched directory and state directory (lock file, run logs)
//   - Organize: catch-all folder, hidden-file policy, settle age, dry run
//   - Watch: notification/polling mode and settle worker tuning
//   - Logging: log format, level, and retention
//   - Categories: category name to extension list
type Config struct {
	Paths      Paths               `toml:"paths"`
	Organize   Organize            `toml:"organize"`
	Watch      Watch               `toml:"watch"`
	Logging    Logging             `toml:"logging"`
	Categories map[string][]string `toml:"categories"`
}

// Category is one entry of the category mapping.
type Category struct {
	Name       string
	Extensions []string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Resolution order when path is empty:
// config.toml in the working directory, then the default location.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	// A [categories] table replaces the built-in mapping rather than merging into it.
	cfg.Categories = nil

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, resolvedPath, exists, faults.Wrap(faults.ErrConfiguration, "config", "open", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, resolvedPath, exists, faults.Wrap(faults.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolvedPath, exists, faults.Wrap(faults.ErrConfiguration, "config", "normalize", "", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, resolvedPath, exists, faults.Wrap(faults.ErrConfiguration, "config", "validate", "", err)
	}

	return &cfg, resolvedPath, exists, nil
}

// LoadOrDefault behaves like Load but never fails: when the file is malformed
// or invalid it returns the built-in defaults together with the load error so
// the caller can report it. The returned config is always non-nil.
func LoadOrDefault(path string) (*Config, string, bool, error) {
	cfg, resolved, exists, err := Load(path)
	if err == nil {
		return cfg, resolved, exists, nil
	}
	fallback := Default()
	if nerr := fallback.normalize(); nerr != nil {
		// Only home directory resolution can fail here; keep the raw defaults.
		fallback = Default()
	}
	return &fallback, resolved, exists, err
}

// UnknownKeys lists the dotted keys in the file at path that match no
// setting. Load ignores them, so a misspelled or legacy key silently keeps
// its default.
func UnknownKeys(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "config", "open", path, err)
	}
	defer file.Close()

	var cfg Config
	err = toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg)
	var strict *toml.StrictMissingError
	switch {
	case err == nil:
		return nil, nil
	case errors.As(err, &strict):
	default:
		return nil, faults.Wrap(faults.ErrConfiguration, "config", "parse", path, err)
	}

	keys := make([]string, 0, len(strict.Errors))
	for i := range strict.Errors {
		keys = append(keys, strings.Join(strict.Errors[i].Key(), "."))
	}
	sort.Strings(keys)
	return keys, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("config.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directories used by the daemon. The
// watched directory is never created: its absence is a setup error.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogDir returns the directory holding per-run daemon logs.
func (c *Config) LogDir() string {
	return filepath.Join(c.Paths.StateDir, "logs")
}

// MinAge returns the settle age as a duration.
func (c *Config) MinAge() time.Duration {
	return secondsToDuration(c.Organize.MinAgeSeconds)
}

// PollInterval returns the polling interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return secondsToDuration(c.Watch.PollIntervalSeconds)
}

// CategoryList returns the category mapping ordered by category name. The
// order is the deterministic iteration order used to build the extension index.
func (c *Config) CategoryList() []Category {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Category, 0, len(names))
	for _, name := range names {
		exts := make([]string, len(c.Categories[name]))
		copy(exts, c.Categories[name])
		out = append(out, Category{Name: name, Extensions: exts})
	}
	return out
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
