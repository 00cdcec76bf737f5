// Package tagger rewrites ID3v2 frames from resolved metadata.
//
// Writes are whole-field replacements for the frames the resolver fills.
// Frames the resolver says nothing about, including genre and year when the
// release carries none, keep their existing values. Every apply reports the
// per-field before and after values so dry runs can show exactly what a real
// run would change.
package tagger
