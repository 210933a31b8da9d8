package config

import (
	"fmt"
)

// LoggingConfig defines settings for run logging.
type LoggingConfig struct {
	// Level selects the minimum log level: "debug", "info", "warn" or "error".
	Level string `json:"level"`
	// Component tags every log line with an origin label.
	Component string `json:"component"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Component == "" {
		c.Component = "tousim"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown level %s", c.Level)
}
