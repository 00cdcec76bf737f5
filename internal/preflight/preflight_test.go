package preflight

import (
	"context"
	"path/filepath"
	"testing"

	"tunetidy/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDirectoryAccess("Source directory", dir); !result.Passed {
		t.Fatalf("writable directory failed: %s", result.Detail)
	}

	missing := filepath.Join(dir, "nope")
	if result := CheckDirectoryAccess("Source directory", missing); result.Passed {
		t.Fatal("missing directory passed")
	}
}

func TestCheckFreeSpaceWalksToExistingParent(t *testing.T) {
	dir := t.TempDir()
	unborn := filepath.Join(dir, "a", "b", "c")

	result := CheckFreeSpace("Output free space", unborn)
	if !result.Passed {
		t.Fatalf("free space check failed on temp filesystem: %s", result.Detail)
	}
}

func TestCheckCredential(t *testing.T) {
	if result := CheckCredential("  "); result.Passed {
		t.Fatal("blank credential passed")
	}
	if result := CheckCredential("abc123"); !result.Passed {
		t.Fatalf("configured credential failed: %s", result.Detail)
	}
}

func TestRunAllWithStubbedFpcalc(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("RunAll() returned no results")
	}
	if !Passed(results) {
		for _, result := range results {
			if !result.Passed {
				t.Errorf("check %q failed: %s", result.Name, result.Detail)
			}
		}
	}
}

func TestRunAllFailsWithoutCredential(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.AcoustID.APIKey = ""

	if Passed(RunAll(context.Background(), cfg)) {
		t.Fatal("expected credential check to fail")
	}
}
