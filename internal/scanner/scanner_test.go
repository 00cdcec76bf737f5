package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"tunetidy/internal/logging"
	"tunetidy/internal/scanner"
	"tunetidy/internal/testsupport"
)

func TestScanFindsMP3sRecursively(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.mp3"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "노래모음", "unknown.MP3"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "sub", "deep", "track.mp3"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "notes.txt"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "cover.jpg"), 16)

	files, err := scanner.New(root, logging.NewNop()).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	got := make([]string, 0, len(files))
	for _, f := range files {
		got = append(got, f.RelPath)
	}
	want := []string{"a.mp3", "sub/deep/track.mp3", "노래모음/unknown.MP3"}
	if len(got) != len(want) {
		t.Fatalf("unexpected files: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected files (order matters): got %v want %v", got, want)
		}
	}
	if files[0].Size != 16 {
		t.Fatalf("size not captured: %+v", files[0])
	}
}

func TestScanSkipsNamedAndHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "keep.mp3"), 8)
	testsupport.WriteFile(t, filepath.Join(root, "_unmatched", "old.mp3"), 8)
	testsupport.WriteFile(t, filepath.Join(root, ".backup", "orig.mp3"), 8)

	files, err := scanner.New(root, logging.NewNop()).Scan("_unmatched")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.mp3" {
		t.Fatalf("skip rules not applied: %+v", files)
	}
}

func TestScanMissingRootFails(t *testing.T) {
	_, err := scanner.New(filepath.Join(t.TempDir(), "absent"), logging.NewNop()).Scan()
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScanRootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.mp3")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := scanner.New(file, logging.NewNop()).Scan(); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}
