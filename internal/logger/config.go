// Package logger provides the application-wide slog wrapper with
// per-package filtering.
package logger

import (
	"log/slog"
	"strings"
)

// Config holds the logger settings.
type Config struct {
	// LogLevel is the minimum level to log: "debug", "info", "warn" or
	// "error".
	LogLevel string `toml:"log_level"`

	// LogFilePath is the output log file. "-" means stderr; empty picks
	// the application default.
	LogFilePath string `toml:"log_file"`

	// EnabledPackages restricts logging to these packages when
	// non-empty. The package name is the immediate directory name,
	// e.g. "document" or "editor".
	EnabledPackages []string `toml:"enabled_packages"`
	// DisabledPackages drops messages from these packages. Overrides
	// EnabledPackages.
	DisabledPackages []string `toml:"disabled_packages"`

	level               slog.Leveler
	enabledPackagesSet  map[string]struct{}
	disabledPackagesSet map[string]struct{}
}

// NewConfig returns the default logger configuration.
func NewConfig() Config {
	return Config{LogLevel: "info"}
}

// process parses the string level and filter lists into their internal
// forms.
func (c *Config) process() {
	if c.level == nil {
		c.level = slog.LevelInfo
		switch strings.ToLower(c.LogLevel) {
		case "debug":
			c.level = slog.LevelDebug
		case "info":
			c.level = slog.LevelInfo
		case "warn", "warning":
			c.level = slog.LevelWarn
		case "error", "err":
			c.level = slog.LevelError
		}
	}
	c.enabledPackagesSet = sliceToSet(c.EnabledPackages)
	c.disabledPackagesSet = sliceToSet(c.DisabledPackages)
}

func (c *Config) hasFilters() bool {
	return c.enabledPackagesSet != nil || c.disabledPackagesSet != nil
}

func sliceToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item != "" {
			set[strings.ToLower(item)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}
