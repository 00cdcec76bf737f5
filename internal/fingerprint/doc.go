// Package fingerprint shells out to the Chromaprint fpcalc binary to compute
// acoustic fingerprints for local audio files.
//
// fpcalc is the only external binary tunetidy depends on. Failures here
// (missing binary, corrupt audio) are per-file conditions: callers treat them
// as "no matches" and keep the run going.
package fingerprint
