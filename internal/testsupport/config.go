package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tunetidy/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.AcoustID.APIKey = "test"
	cfgVal.Paths.SourceDir = filepath.Join(base, "source")
	cfgVal.Paths.OutputDir = filepath.Join(base, "library")
	cfgVal.Paths.BackupDir = filepath.Join(base, "backup")
	cfgVal.Paths.CachePath = filepath.Join(base, "cache", "lookups.db")
	cfgVal.Paths.LockPath = filepath.Join(base, "tunetidy.lock")
	cfgVal.Paths.LogFile = filepath.Join(base, "logs", "tunetidy.log")

	if err := os.MkdirAll(cfgVal.Paths.SourceDir, 0o755); err != nil {
		t.Fatalf("mkdir source dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDryRun toggles the dry-run flag on the test config.
func WithDryRun(dryRun bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Options.DryRun = dryRun
	}
}

// WithBackup enables the backup step on the test config.
func WithBackup() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Options.Backup = true
	}
}

// WithThreshold overrides the confidence threshold on the test config.
func WithThreshold(threshold float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AcoustID.Threshold = threshold
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, fpcalc is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"fpcalc"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceDir)
}
