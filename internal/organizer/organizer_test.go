package organizer

import (
	"os"
	"path/filepath"
	"testing"

	"tunetidy/internal/musicbrainz"
	"tunetidy/internal/scanner"
	"tunetidy/internal/testsupport"
)

func trackFile(t *testing.T, sourceDir, relPath string) scanner.TrackFile {
	t.Helper()
	abs := testsupport.WriteTrack(t, sourceDir, relPath)
	return scanner.TrackFile{AbsPath: abs, RelPath: relPath}
}

func matchedMeta() musicbrainz.Metadata {
	return musicbrainz.Metadata{
		Title:       "Black Swan",
		Artist:      "BTS",
		Album:       "Map of the Soul - 7",
		TrackNumber: 1,
	}
}

func TestPlaceMatchedRendersTemplates(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun(false))
	org := New(cfg, nil)
	file := trackFile(t, cfg.Paths.SourceDir, "incoming/track.mp3")

	placement, err := org.PlaceMatched(file, matchedMeta())
	if err != nil {
		t.Fatalf("PlaceMatched() error = %v", err)
	}

	want := filepath.Join(cfg.Paths.OutputDir, "BTS", "Map of the Soul - 7", "01 - Black Swan.mp3")
	if placement.FinalPath != want {
		t.Fatalf("FinalPath = %q, want %q", placement.FinalPath, want)
	}
	if !placement.Moved {
		t.Fatal("expected file to be moved")
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if _, err := os.Stat(file.AbsPath); !os.IsNotExist(err) {
		t.Fatalf("source still present: %v", err)
	}
}

func TestPlaceMatchedCollisionSuffix(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun(false))
	org := New(cfg, nil)

	first := trackFile(t, cfg.Paths.SourceDir, "a/track.mp3")
	second := trackFile(t, cfg.Paths.SourceDir, "b/track.mp3")

	if _, err := org.PlaceMatched(first, matchedMeta()); err != nil {
		t.Fatalf("first PlaceMatched() error = %v", err)
	}
	placement, err := org.PlaceMatched(second, matchedMeta())
	if err != nil {
		t.Fatalf("second PlaceMatched() error = %v", err)
	}

	want := filepath.Join(cfg.Paths.OutputDir, "BTS", "Map of the Soul - 7", "01 - Black Swan (2).mp3")
	if placement.FinalPath != want {
		t.Fatalf("FinalPath = %q, want collision suffix %q", placement.FinalPath, want)
	}
}

func TestPlaceMatchedIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun(false))
	org := New(cfg, nil)
	file := trackFile(t, cfg.Paths.SourceDir, "track.mp3")

	placement, err := org.PlaceMatched(file, matchedMeta())
	if err != nil {
		t.Fatalf("PlaceMatched() error = %v", err)
	}

	again := scanner.TrackFile{AbsPath: placement.FinalPath, RelPath: "track.mp3"}
	second, err := org.PlaceMatched(again, matchedMeta())
	if err != nil {
		t.Fatalf("second PlaceMatched() error = %v", err)
	}
	if !second.Skipped || second.Moved {
		t.Fatalf("second placement = %+v, want skip with no move", second)
	}
	if second.FinalPath != placement.FinalPath {
		t.Fatalf("FinalPath changed on re-run: %q then %q", placement.FinalPath, second.FinalPath)
	}
}

func TestPlaceUnmatchedPreservesRelativePath(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun(false))
	org := New(cfg, nil)
	file := trackFile(t, cfg.Paths.SourceDir, "노래모음/unknown.mp3")

	placement, err := org.PlaceUnmatched(file)
	if err != nil {
		t.Fatalf("PlaceUnmatched() error = %v", err)
	}

	want := filepath.Join(cfg.Paths.OutputDir, "_unmatched", "노래모음", "unknown.mp3")
	if placement.FinalPath != want {
		t.Fatalf("FinalPath = %q, want %q", placement.FinalPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("quarantined file missing: %v", err)
	}
}

func TestDryRunReportsWithoutMoving(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org := New(cfg, nil)
	file := trackFile(t, cfg.Paths.SourceDir, "track.mp3")

	placement, err := org.PlaceMatched(file, matchedMeta())
	if err != nil {
		t.Fatalf("PlaceMatched() error = %v", err)
	}

	want := filepath.Join(cfg.Paths.OutputDir, "BTS", "Map of the Soul - 7", "01 - Black Swan.mp3")
	if placement.FinalPath != want {
		t.Fatalf("dry run FinalPath = %q, want %q", placement.FinalPath, want)
	}
	if placement.Moved {
		t.Fatal("dry run reported a move")
	}
	if _, err := os.Stat(file.AbsPath); err != nil {
		t.Fatalf("dry run moved the source: %v", err)
	}
	if _, err := os.Stat(want); !os.IsNotExist(err) {
		t.Fatalf("dry run created the destination: %v", err)
	}
}

func TestBackupCopiesBeforeMutation(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun(false), testsupport.WithBackup())
	org := New(cfg, nil)
	file := trackFile(t, cfg.Paths.SourceDir, "albums/track.mp3")

	backupPath, err := org.Backup(file)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	want := filepath.Join(cfg.Paths.BackupDir, "albums", "track.mp3")
	if backupPath != want {
		t.Fatalf("backup path = %q, want %q", backupPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("backup copy missing: %v", err)
	}
	if _, err := os.Stat(file.AbsPath); err != nil {
		t.Fatalf("backup removed the original: %v", err)
	}
}

func TestBackupDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun(false))
	org := New(cfg, nil)
	file := trackFile(t, cfg.Paths.SourceDir, "track.mp3")

	backupPath, err := org.Backup(file)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if backupPath != "" {
		t.Fatalf("backup path = %q, want empty when disabled", backupPath)
	}
}
