package fingerprint_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tunetidy/internal/fingerprint"
	"tunetidy/internal/services"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fpcalc")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestComputeParsesJSON(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\nprintf '{\"duration\": 245.73, \"fingerprint\": \"AQADtEmi\"}'\n")
	client := fingerprint.New(fingerprint.WithBinary(stub))

	got, err := client.Compute(context.Background(), "/tmp/whatever.mp3")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.DurationSeconds != 245 {
		t.Fatalf("duration should round down to whole seconds, got %d", got.DurationSeconds)
	}
	if got.Fingerprint != "AQADtEmi" {
		t.Fatalf("unexpected fingerprint: %q", got.Fingerprint)
	}
	if got.Digest() == "" || got.Digest() != got.Digest() {
		t.Fatal("digest must be non-empty and stable")
	}
}

func TestComputeBinaryFailure(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\necho 'ERROR: could not decode audio' >&2\nexit 2\n")
	client := fingerprint.New(fingerprint.WithBinary(stub))

	_, err := client.Compute(context.Background(), "/tmp/corrupt.mp3")
	if err == nil {
		t.Fatal("expected error from failing fpcalc")
	}
	if !errors.Is(err, services.ErrFingerprint) {
		t.Fatalf("expected fingerprint marker, got %v", err)
	}
}

func TestComputeRejectsEmptyFingerprint(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\nprintf '{\"duration\": 10, \"fingerprint\": \"\"}'\n")
	client := fingerprint.New(fingerprint.WithBinary(stub))

	if _, err := client.Compute(context.Background(), "/tmp/f.mp3"); err == nil {
		t.Fatal("expected error for empty fingerprint")
	}
}

func TestAvailable(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\nexit 0\n")
	if !fingerprint.New(fingerprint.WithBinary(stub)).Available() {
		t.Fatal("stub binary should be available")
	}
	if fingerprint.New(fingerprint.WithBinary("definitely-not-a-real-binary")).Available() {
		t.Fatal("missing binary reported as available")
	}
}

func TestDigestDiffersPerFingerprint(t *testing.T) {
	a := fingerprint.Result{Fingerprint: "AAA"}
	b := fingerprint.Result{Fingerprint: "BBB"}
	if a.Digest() == b.Digest() {
		t.Fatal("different fingerprints must produce different digests")
	}
}
