// Package pipeline orchestrates a full organize run.
//
// Files are processed sequentially in scan order: fingerprint, lookup,
// reconcile, then tag and place. A flock-guarded lock file keeps concurrent
// runs off the same library. Per-file failures are captured into the run
// report and never abort the run; only a failed preflight does.
package pipeline
