package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAcoustID()
	c.normalizeMusicBrainz()
	c.normalizeTemplates()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	// Output defaults to organizing in place under the source root.
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = c.Paths.SourceDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackupDir) == "" && c.Paths.SourceDir != "" {
		c.Paths.BackupDir = filepath.Join(c.Paths.SourceDir, ".backup")
	}
	if c.Paths.BackupDir, err = expandPath(c.Paths.BackupDir); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogFile) == "" {
		c.Paths.LogFile = defaultLogFile
	}
	if c.Paths.LogFile, err = expandPath(c.Paths.LogFile); err != nil {
		return fmt.Errorf("paths.log_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = defaultCachePath
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockPath) == "" {
		c.Paths.LockPath = defaultLockPath
	}
	if c.Paths.LockPath, err = expandPath(c.Paths.LockPath); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	c.Paths.Unmatched = strings.TrimSpace(c.Paths.Unmatched)
	if c.Paths.Unmatched == "" {
		c.Paths.Unmatched = defaultUnmatchedFolder
	}
	return nil
}

func (c *Config) normalizeAcoustID() {
	if c.AcoustID.APIKey == "" {
		for _, key := range []string{"TUNETIDY_ACOUSTID_API_KEY", "ACOUSTID_API_KEY"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.AcoustID.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	c.AcoustID.APIKey = strings.TrimSpace(c.AcoustID.APIKey)
	c.AcoustID.BaseURL = strings.TrimRight(strings.TrimSpace(c.AcoustID.BaseURL), "/")
	if c.AcoustID.BaseURL == "" {
		c.AcoustID.BaseURL = defaultAcoustIDBaseURL
	}
	if c.AcoustID.TimeoutSeconds <= 0 {
		c.AcoustID.TimeoutSeconds = defaultAcoustIDTimeout
	}
}

func (c *Config) normalizeMusicBrainz() {
	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	if c.MusicBrainz.BaseURL == "" {
		c.MusicBrainz.BaseURL = defaultMusicBrainzBaseURL
	}
	if c.MusicBrainz.MinRequestIntervalMS <= 0 {
		c.MusicBrainz.MinRequestIntervalMS = defaultMinRequestInterval
	}
	if c.MusicBrainz.TimeoutSeconds <= 0 {
		c.MusicBrainz.TimeoutSeconds = defaultMusicBrainzTimeout
	}
}

func (c *Config) normalizeTemplates() {
	c.Templates.Folder = strings.TrimSpace(c.Templates.Folder)
	if c.Templates.Folder == "" {
		c.Templates.Folder = defaultFolderTemplate
	}
	c.Templates.Filename = strings.TrimSpace(c.Templates.Filename)
	if c.Templates.Filename == "" {
		c.Templates.Filename = defaultFilenameTemplate
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
