package fingerprint

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"tunetidy/internal/services"
)

// Result carries the fpcalc output for one file.
type Result struct {
	// DurationSeconds is rounded down to whole seconds, which is what the
	// identification service expects.
	DurationSeconds int
	Fingerprint     string
}

// Digest returns a short stable digest of the fingerprint, used as the
// lookup cache key.
func (r Result) Digest() string {
	sum := sha256.Sum256([]byte(r.Fingerprint))
	return hex.EncodeToString(sum[:16])
}

// Client invokes fpcalc.
type Client struct {
	binary  string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the fpcalc executable (used in tests).
func WithBinary(path string) Option {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.binary = path
		}
	}
}

// WithTimeout bounds a single fpcalc invocation.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a Chromaprint client.
func New(opts ...Option) *Client {
	c := &Client{binary: "fpcalc", timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the fpcalc binary can be found.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Compute runs fpcalc against the file and parses its JSON output.
func (c *Client) Compute(ctx context.Context, path string) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.binary, "-json", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = fmt.Sprintf("fingerprint %q", path)
		}
		return Result{}, services.Wrap(services.ErrFingerprint, "fingerprint", "run fpcalc", detail, err)
	}

	var payload struct {
		Duration    float64 `json:"duration"`
		Fingerprint string  `json:"fingerprint"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		return Result{}, services.Wrap(services.ErrFingerprint, "fingerprint", "parse fpcalc output", "", err)
	}
	if strings.TrimSpace(payload.Fingerprint) == "" {
		return Result{}, services.Wrap(services.ErrFingerprint, "fingerprint", "parse fpcalc output", fmt.Sprintf("empty fingerprint for %q", path), nil)
	}
	if payload.Duration <= 0 {
		return Result{}, services.Wrap(services.ErrFingerprint, "fingerprint", "parse fpcalc output", fmt.Sprintf("non-positive duration for %q", path), nil)
	}

	return Result{
		DurationSeconds: int(payload.Duration),
		Fingerprint:     payload.Fingerprint,
	}, nil
}
