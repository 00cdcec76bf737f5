package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndNormalizes(t *testing.T) {
	source := t.TempDir()
	path := writeConfig(t, `
[paths]
source_dir = "`+source+`"

[acoustid]
api_key = "abc123"
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatalf("expected config at %s to be found", resolved)
	}
	if cfg.Paths.OutputDir != source {
		t.Fatalf("output_dir should default to source_dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.BackupDir != filepath.Join(source, ".backup") {
		t.Fatalf("unexpected default backup dir: %q", cfg.Paths.BackupDir)
	}
	if cfg.Paths.Unmatched != "_unmatched" {
		t.Fatalf("unexpected unmatched folder: %q", cfg.Paths.Unmatched)
	}
	if cfg.AcoustID.Threshold != 0.50 {
		t.Fatalf("unexpected default threshold: %v", cfg.AcoustID.Threshold)
	}
	if !cfg.Options.DryRun {
		t.Fatal("dry_run must default to true")
	}
	if cfg.Templates.Folder != "{artist}/{album}" || cfg.Templates.Filename != "{track:02d} - {title}" {
		t.Fatalf("unexpected default templates: %q / %q", cfg.Templates.Folder, cfg.Templates.Filename)
	}
	if cfg.MinRequestInterval().Milliseconds() != 1000 {
		t.Fatalf("unexpected request interval: %v", cfg.MinRequestInterval())
	}
}

func TestLoadMissingAPIKeyFails(t *testing.T) {
	t.Setenv("ACOUSTID_API_KEY", "")
	t.Setenv("TUNETIDY_ACOUSTID_API_KEY", "")
	path := writeConfig(t, `
[paths]
source_dir = "`+t.TempDir()+`"
`)
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "acoustid.api_key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestEnvironmentAPIKeyFallback(t *testing.T) {
	t.Setenv("ACOUSTID_API_KEY", "env-key")
	path := writeConfig(t, `
[paths]
source_dir = "`+t.TempDir()+`"
`)
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AcoustID.APIKey != "env-key" {
		t.Fatalf("expected env fallback, got %q", cfg.AcoustID.APIKey)
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := Default()
	cfg.Paths.SourceDir = "/tmp"
	cfg.AcoustID.APIKey = "k"
	cfg.AcoustID.Threshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected threshold validation failure")
	}
}

func TestValidateRejectsFastRequestInterval(t *testing.T) {
	cfg := Default()
	cfg.Paths.SourceDir = "/tmp"
	cfg.AcoustID.APIKey = "k"
	cfg.MusicBrainz.MinRequestIntervalMS = 200
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected request interval validation failure")
	}
}

func TestValidateRejectsSeparatorInFilenameTemplate(t *testing.T) {
	cfg := Default()
	cfg.Paths.SourceDir = "/tmp"
	cfg.AcoustID.APIKey = "k"
	cfg.Templates.Filename = "{artist}/{title}"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected filename template validation failure")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[acoustid]") {
		t.Fatalf("sample missing acoustid section:\n%s", data)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := ExpandPath("~/music")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
