// Package reconcile turns fingerprint lookup results into a tagging decision.
//
// The decision is a pure function of the candidate matches, the confidence
// threshold, and whatever the metadata resolver returns. Files that cannot be
// matched carry a reason so the caller can report why quarantine happened.
package reconcile
