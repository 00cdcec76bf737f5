// Package organizer renders destination paths and moves files into place.
//
// Matched files land at the configured folder and filename templates under
// the output root. Unmatched files keep their scan-relative paths under the
// quarantine folder. Collisions are resolved against live filesystem state
// with a numeric suffix, and a dry run reports the same placements a real
// run would perform.
package organizer
