package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCategories(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WatchDir == "" {
		return errors.New("paths.watch_dir must be set")
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if err := validateFolderName("organize.other_folder", c.Organize.OtherFolder); err != nil {
		return err
	}
	if c.Organize.MinAgeSeconds < 0 {
		return errors.New("organize.min_age_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateWatch() error {
	switch c.Watch.Mode {
	case WatchModeAuto, WatchModeNotify, WatchModePoll:
	default:
		return fmt.Errorf("watch.mode must be one of %q, %q, %q (got %q)", WatchModeAuto, WatchModeNotify, WatchModePoll, c.Watch.Mode)
	}
	if c.Watch.PollIntervalSeconds <= 0 {
		return errors.New("watch.poll_interval_seconds must be positive")
	}
	if c.Watch.MaxEventsPerSecond <= 0 {
		return errors.New("watch.max_events_per_second must be positive")
	}
	return ensurePositiveMap(map[string]int{
		"watch.settle_attempts": c.Watch.SettleAttempts,
		"watch.workers":         c.Watch.Workers,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\" (got %q)", c.Logging.Format)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level %q is not a recognized level", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

// validateCategories rejects folder names that would escape the watched
// directory and any extension claimed by more than one category.
func (c *Config) validateCategories() error {
	owners := make(map[string][]string)
	for _, cat := range c.CategoryList() {
		if err := validateFolderName("categories."+cat.Name, cat.Name); err != nil {
			return err
		}
		for _, ext := range cat.Extensions {
			owners[ext] = append(owners[ext], cat.Name)
		}
	}
	conflicts := make([]string, 0)
	for ext, names := range owners {
		if len(names) > 1 {
			label := ext
			if label == "" {
				label = `"" (wildcard)`
			}
			conflicts = append(conflicts, fmt.Sprintf("%s claimed by %s", label, strings.Join(names, ", ")))
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return fmt.Errorf("categories: extension mapped to more than one category: %s", strings.Join(conflicts, "; "))
	}
	return nil
}

func validateFolderName(key, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%s must not be empty", key)
	case name == "." || name == "..":
		return fmt.Errorf("%s must not be %q", key, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%s must not contain path separators", key)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
