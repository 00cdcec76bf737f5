// Package lookupcache persists fingerprint lookup results between runs.
//
// The cache is keyed by a digest of the fingerprint, so re-running over a
// partially organized library does not repeat paid-for AcoustID requests.
// Only successful lookups are stored; transient failures stay retryable.
package lookupcache
