package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateControl(); err != nil {
		return err
	}
	if err := c.validateEditor(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateControl() error {
	if c.Control.Enabled && c.Control.Address == "" {
		return errors.New("control.address must be set when control.enabled is true")
	}
	if c.Control.DispatchTimeout <= 0 {
		return errors.New("control.dispatch_timeout must be a positive number of seconds")
	}
	return nil
}

func (c *Config) validateEditor() error {
	if c.Editor.NvimPath == "" {
		return errors.New("editor.nvim_path must be set")
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
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
