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
	if err := c.validateAcoustID(); err != nil {
		return err
	}
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	if err := c.validateTemplates(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir must be set (or pass --source)")
	}
	if strings.ContainsAny(c.Paths.Unmatched, `/\`) {
		return fmt.Errorf("paths.unmatched_folder must be a bare folder name, got %q", c.Paths.Unmatched)
	}
	return nil
}

func (c *Config) validateAcoustID() error {
	if c.AcoustID.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/tunetidy/config.toml"
		}
		return fmt.Errorf("acoustid.api_key is required. Set ACOUSTID_API_KEY env var or edit %s (create with 'tunetidy config init')", defaultPath)
	}
	if c.AcoustID.Threshold < 0 || c.AcoustID.Threshold > 1 {
		return errors.New("acoustid.confidence_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateMusicBrainz() error {
	if c.MusicBrainz.MinRequestIntervalMS < 1000 {
		return errors.New("musicbrainz.min_request_interval_ms must be at least 1000 (service rate limit)")
	}
	return nil
}

func (c *Config) validateTemplates() error {
	for name, tmpl := range map[string]string{
		"templates.folder":   c.Templates.Folder,
		"templates.filename": c.Templates.Filename,
	} {
		if strings.TrimSpace(tmpl) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	if strings.ContainsAny(c.Templates.Filename, `/\`) {
		return errors.New("templates.filename must not contain path separators")
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
