package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileCreatesParentsAndPreservesContent(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src.mp3")
	if err := os.WriteFile(src, []byte("payload"), 0o640); err != nil {
		t.Fatalf("write src: %v", err)
	}
	dst := filepath.Join(base, "a", "b", "dst.mp3")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content mismatch: %q", data)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat dst: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode not preserved: %v", info.Mode())
	}
	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("stray files in destination dir: %v", entries)
	}
}

func TestMoveFileRemovesSource(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src.mp3")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	dst := filepath.Join(base, "out", "dst.mp3")
	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still present after move: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
}

func TestSameFile(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "f")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !SameFile(path, path) {
		t.Fatal("path should equal itself")
	}
	other := filepath.Join(base, "g")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if SameFile(path, other) {
		t.Fatal("distinct files reported as same")
	}
	if SameFile(path, filepath.Join(base, "missing")) {
		t.Fatal("missing path reported as same")
	}
}

func TestPruneEmptyDirsStopsAtRoot(t *testing.T) {
	base := t.TempDir()
	leaf := filepath.Join(base, "a", "b", "c")
	if err := os.MkdirAll(leaf, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	keep := filepath.Join(base, "a", "keep.txt")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	PruneEmptyDirs(leaf, base)

	if _, err := os.Stat(filepath.Join(base, "a", "b")); !os.IsNotExist(err) {
		t.Fatal("empty subtree not pruned")
	}
	if _, err := os.Stat(filepath.Join(base, "a")); err != nil {
		t.Fatal("non-empty directory was pruned")
	}
	if _, err := os.Stat(base); err != nil {
		t.Fatal("stop directory was pruned")
	}
}
