package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeWatch()
	c.normalizeLogging()
	c.normalizeCategories()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		c.Paths.WatchDir = defaultWatchDir
	}
	if c.Paths.WatchDir, err = expandPath(strings.TrimSpace(c.Paths.WatchDir)); err != nil {
		return fmt.Errorf("paths.watch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	c.Organize.OtherFolder = strings.TrimSpace(c.Organize.OtherFolder)
	if c.Organize.OtherFolder == "" {
		c.Organize.OtherFolder = defaultOtherFolder
	}
}

func (c *Config) normalizeWatch() {
	c.Watch.Mode = strings.ToLower(strings.TrimSpace(c.Watch.Mode))
	if c.Watch.Mode == "" {
		c.Watch.Mode = defaultWatchMode
	}
	if c.Watch.SettleAttempts <= 0 {
		c.Watch.SettleAttempts = defaultSettleAttempts
	}
	if c.Watch.Workers <= 0 {
		c.Watch.Workers = defaultWorkers
	}
	if c.Watch.MaxEventsPerSecond <= 0 {
		c.Watch.MaxEventsPerSecond = defaultMaxEventsPerSecond
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeCategories trims category names, normalizes every extension, and
// drops duplicates inside a category. An absent or empty table selects the
// built-in mapping. Cross-category duplicates are left for Validate.
func (c *Config) normalizeCategories() {
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories()
	}
	normalized := make(map[string][]string, len(c.Categories))
	for name, exts := range c.Categories {
		name = strings.TrimSpace(name)
		seen := make(map[string]struct{}, len(exts))
		list := make([]string, 0, len(exts))
		for _, ext := range exts {
			ext = NormalizeExtension(ext)
			if _, dup := seen[ext]; dup {
				continue
			}
			seen[ext] = struct{}{}
			list = append(list, ext)
		}
		normalized[name] = append(normalized[name], list...)
	}
	c.Categories = normalized
}
