package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.WorkspaceDir == c.Paths.OutputDir {
		return errors.New("paths.workspace_dir and paths.output_dir must differ")
	}
	return nil
}

func (c *Config) validateConversion() error {
	switch c.Conversion.DefaultKind {
	case "gif", "mp3":
	default:
		return fmt.Errorf("conversion.default_kind must be gif or mp3, got %q", c.Conversion.DefaultKind)
	}
	if c.Conversion.MaxDurationSeconds <= 0 {
		return errors.New("conversion.max_duration_seconds must be positive")
	}
	if c.Conversion.DefaultDurationSeconds < 0 {
		return errors.New("conversion.default_duration_seconds must be >= 0")
	}
	if c.Conversion.DefaultDurationSeconds > c.Conversion.MaxDurationSeconds {
		return errors.New("conversion.default_duration_seconds must not exceed conversion.max_duration_seconds")
	}
	return nil
}

func (c *Config) validateInput() error {
	if c.Input.MaxBytes < 0 {
		return errors.New("input.max_bytes must be >= 0")
	}
	return nil
}
