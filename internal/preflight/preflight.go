package preflight

import (
	"context"

	"tunetidy/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Source directory", cfg.Paths.SourceDir),
	}

	if cfg.Paths.OutputDir != "" && cfg.Paths.OutputDir != cfg.Paths.SourceDir {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}
	results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir))
	results = append(results, CheckFpcalc(cfg.FpcalcBinary()))
	results = append(results, CheckCredential(cfg.AcoustID.APIKey))

	return results
}

// Passed reports whether every result in the set passed.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
