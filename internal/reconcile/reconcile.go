package reconcile

import (
	"context"

	"tunetidy/internal/acoustid"
	"tunetidy/internal/musicbrainz"
)

// Status is the terminal state of a reconciliation.
type Status string

const (
	StatusMatched   Status = "matched"
	StatusUnmatched Status = "unmatched"
)

// Reason explains why a file ended up unmatched.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNoFingerprintMatch Reason = "no_fingerprint_match"
	ReasonLowConfidence      Reason = "low_confidence"
	ReasonMetadataIncomplete Reason = "metadata_incomplete"
)

// Outcome is the decision for one file. Metadata is populated only when
// Status is StatusMatched.
type Outcome struct {
	Status   Status
	Reason   Reason
	Match    acoustid.Match
	Metadata musicbrainz.Metadata
}

// Matched reports whether the outcome carries usable metadata.
func (o Outcome) Matched() bool {
	return o.Status == StatusMatched
}

// Reconcile selects the best candidate match and resolves it into metadata.
//
// The highest-scoring candidate wins; on equal scores the earlier candidate
// is kept, preserving the lookup service's ordering. A candidate scoring
// exactly at the threshold is accepted. The resolver is only consulted once
// a candidate clears the threshold, so unmatched files never cost a metadata
// request.
func Reconcile(ctx context.Context, matches []acoustid.Match, threshold float64, resolver musicbrainz.Resolver) Outcome {
	if len(matches) == 0 {
		return Outcome{Status: StatusUnmatched, Reason: ReasonNoFingerprintMatch}
	}

	best := matches[0]
	for _, match := range matches[1:] {
		if match.Score > best.Score {
			best = match
		}
	}

	if best.Score < threshold {
		return Outcome{Status: StatusUnmatched, Reason: ReasonLowConfidence, Match: best}
	}

	meta, err := resolver.Resolve(ctx, best.RecordingID)
	if err != nil || !meta.Complete() {
		return Outcome{Status: StatusUnmatched, Reason: ReasonMetadataIncomplete, Match: best}
	}
	return Outcome{Status: StatusMatched, Match: best, Metadata: meta}
}
