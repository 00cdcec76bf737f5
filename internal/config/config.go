package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	OutputDir string `toml:"output_dir"`
	LogFile   string `toml:"log_file"`
	BackupDir string `toml:"backup_dir"`
	CachePath string `toml:"cache_path"`
	LockPath  string `toml:"lock_path"`
	Unmatched string `toml:"unmatched_folder"`
}

// AcoustID contains configuration for the AcoustID identification service.
type AcoustID struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Threshold      float64 `toml:"confidence_threshold"`
}

// MusicBrainz contains configuration for the metadata database.
type MusicBrainz struct {
	BaseURL string `toml:"base_url"`
	// MinRequestIntervalMS is the enforced spacing between successive
	// requests. MusicBrainz allows at most one request per second.
	MinRequestIntervalMS int `toml:"min_request_interval_ms"`
	TimeoutSeconds       int `toml:"timeout_seconds"`
}

// Templates contains the folder and filename render templates.
type Templates struct {
	Folder   string `toml:"folder"`
	Filename string `toml:"filename"`
}

// Options contains run behaviour toggles.
type Options struct {
	DryRun bool `toml:"dry_run"`
	Backup bool `toml:"backup"`
	// CacheEnabled controls the local lookup cache; disabling it forces a
	// fresh AcoustID round-trip for every file.
	CacheEnabled bool `toml:"cache_enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tunetidy.
//
// Configuration sections by subsystem:
//   - Paths: source/output/backup directories, cache and lock locations
//   - AcoustID: fingerprint identification service and confidence threshold
//   - MusicBrainz: metadata database endpoint and request pacing
//   - Templates: folder and filename render templates
//   - Options: dry-run, backup, and cache toggles
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	AcoustID    AcoustID    `toml:"acoustid"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	Templates   Templates   `toml:"templates"`
	Options     Options     `toml:"options"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tunetidy/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// returned config has all path fields expanded and absolute. The bool result
// reports whether a config file was actually found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("tunetidy.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// MinRequestInterval returns the metadata request spacing as a duration.
func (c *Config) MinRequestInterval() time.Duration {
	return time.Duration(c.MusicBrainz.MinRequestIntervalMS) * time.Millisecond
}

// AcoustIDTimeout returns the identification request timeout as a duration.
func (c *Config) AcoustIDTimeout() time.Duration {
	return time.Duration(c.AcoustID.TimeoutSeconds) * time.Second
}

// MusicBrainzTimeout returns the metadata request timeout as a duration.
func (c *Config) MusicBrainzTimeout() time.Duration {
	return time.Duration(c.MusicBrainz.TimeoutSeconds) * time.Second
}

// FpcalcBinary returns the Chromaprint fingerprinting executable name.
func (c *Config) FpcalcBinary() string {
	return "fpcalc"
}

// EnsureDirectories creates the directories a run writes into. The source
// tree is deliberately excluded: it must already exist and is validated by
// preflight instead.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir}
	if c.Options.Backup {
		dirs = append(dirs, c.Paths.BackupDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, path := range []string{c.Paths.CachePath, c.Paths.LockPath, c.Paths.LogFile} {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create directory for %q: %w", path, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
