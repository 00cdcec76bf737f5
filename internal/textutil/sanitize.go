package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxSegmentBytes bounds a single path component so names survive 255-byte
// filename limits with room left for collision suffixes and extensions.
const maxSegmentBytes = 200

// segmentReplacer substitutes filesystem-illegal characters with underscores.
var segmentReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeSegment makes name safe to use as a single path component.
// Illegal characters and control characters become underscores, runs of
// whitespace collapse to one space, leading/trailing spaces and dots are
// trimmed, and overlong names are clamped at a UTF-8 boundary. Empty input
// sanitizes to "Unknown" so callers never produce an empty component.
func SanitizeSegment(name string) string {
	name = NormalizeNFC(strings.TrimSpace(name))
	if name == "" {
		return "Unknown"
	}

	name = segmentReplacer.Replace(name)

	var b strings.Builder
	b.Grow(len(name))
	space := false
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			r = '_'
		}
		if r == ' ' {
			if space {
				continue
			}
			space = true
		} else {
			space = false
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), " .")
	out = clampBytes(out, maxSegmentBytes)
	out = strings.Trim(out, " .")
	if out == "" {
		return "Unknown"
	}
	return out
}

// NormalizeNFC returns the NFC form of s. Resolved metadata and scanned
// paths mix composed and decomposed Unicode (notably Hangul), and path
// comparison only works if both sides agree on one form.
func NormalizeNFC(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

func clampBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8BoundaryAt(s, cut) {
		cut--
	}
	return s[:cut]
}

func utf8BoundaryAt(s string, i int) bool {
	return i == 0 || i == len(s) || (s[i]&0xC0) != 0x80
}
