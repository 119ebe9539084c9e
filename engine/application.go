package engine

import (
	"github.com/spaghettifunk/voxgrid/engine/core"
)

type ApplicationConfig struct {
	// The application name used in logs.
	Name string
	// Path of the TOML configuration. Empty means the built-in defaults.
	ConfigPath string
	// Overrides the configured log level when set.
	LogLevel string
	// Overrides the configured output directory when set.
	OutputDir string
	// Overrides the configured metrics address when set. "-" disables the server.
	MetricsAddr string
}

// MetricsDisabled as MetricsAddr turns the metrics endpoint off.
const MetricsDisabled = "-"

func (ac *ApplicationConfig) logLevel(configured string) string {
	if ac.LogLevel != "" {
		return ac.LogLevel
	}
	if configured != "" {
		return configured
	}
	return core.InfoLevel.String()
}
