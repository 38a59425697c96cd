package config

import (
	"errors"
	"fmt"

	"bcimerge/internal/device"
	"bcimerge/internal/faults"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return faults.Wrap(faults.ErrConfiguration, "config", "validate", "", err)
	}
	if err := c.validateDefaults(); err != nil {
		return faults.Wrap(faults.ErrConfiguration, "config", "validate", "", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateDefaults() error {
	if _, err := device.Lookup(c.Defaults.Device); err != nil {
		return fmt.Errorf("defaults.device: %w", err)
	}
	if c.Defaults.Length < 0 {
		return errors.New("defaults.length must be >= 0")
	}
	if c.Defaults.WindowMillis < 0 {
		return errors.New("defaults.window_ms must be >= 0")
	}
	if c.Defaults.SampleRate < 0 {
		return errors.New("defaults.sample_rate must be >= 0")
	}
	return nil
}
