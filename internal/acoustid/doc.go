// Package acoustid looks up acoustic fingerprints against the AcoustID web
// service and returns ranked candidate matches.
//
// The response order is preserved exactly as the service returns it; the
// reconciliation step relies on provider order as the tie-break between
// candidates with equal scores.
package acoustid
