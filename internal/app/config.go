package app

import (
	"devrunner/internal/config"
)

// Config holds the application configuration
type Config struct {
	// GenTypes selects the one-shot type generation mode.
	GenTypes bool

	// Production is reserved; it is parsed and logged only.
	Production bool

	// Debug settings
	Debug bool

	// ProjectRoot defaults to the working directory.
	ProjectRoot string

	// ConfigPath, when set, replaces the user and project config files.
	ConfigPath string

	// WaitPolicy overrides the config file when non-empty.
	WaitPolicy string

	// Project configuration, filled in by NewApplication
	DevrunnerConfig *config.DevrunnerConfig
}

// NewConfig creates a new application configuration
func NewConfig(genTypes, production, debug bool) *Config {
	return &Config{
		GenTypes:   genTypes,
		Production: production,
		Debug:      debug,
	}
}
