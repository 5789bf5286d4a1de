package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dlsort/internal/config"
	"dlsort/internal/organizer"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once. The returned config is never
// nil; a non-nil error means the file was rejected and defaults are in use.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configPath, c.configExists, c.configErr = config.LoadOrDefault(c.flagPath())
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) flagPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func warnConfigFallback(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warn: %v; continuing with built-in defaults\n", err)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// dryRunOptions forwards --dry-run only when the flag was given, so the
// configured value applies otherwise.
func dryRunOptions(cmd *cobra.Command, dryRun bool) []organizer.Option {
	if !cmd.Flags().Changed("dry-run") {
		return nil
	}
	return []organizer.Option{organizer.WithDryRun(dryRun)}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
