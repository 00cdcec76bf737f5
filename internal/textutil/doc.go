// Package textutil provides string normalization and sanitization helpers
// shared across scanning, tagging, and organizing.
//
// Metadata arrives from external databases as free-form text, so anything
// that ends up in a path component must pass through SanitizeSegment first.
package textutil
