package reconcile

import (
	"context"
	"errors"
	"testing"

	"tunetidy/internal/acoustid"
	"tunetidy/internal/musicbrainz"
)

type stubResolver struct {
	meta  map[string]musicbrainz.Metadata
	err   error
	calls []string
}

func (s *stubResolver) Resolve(_ context.Context, recordingID string) (musicbrainz.Metadata, error) {
	s.calls = append(s.calls, recordingID)
	if s.err != nil {
		return musicbrainz.Metadata{}, s.err
	}
	return s.meta[recordingID], nil
}

func completeMeta(recordingID string) musicbrainz.Metadata {
	return musicbrainz.Metadata{
		Title:       "Black Swan",
		Artist:      "BTS",
		Album:       "Map of the Soul: 7",
		RecordingID: recordingID,
	}
}

func TestReconcileNoMatches(t *testing.T) {
	resolver := &stubResolver{}
	outcome := Reconcile(context.Background(), nil, 0.5, resolver)

	if outcome.Status != StatusUnmatched || outcome.Reason != ReasonNoFingerprintMatch {
		t.Fatalf("outcome = %+v, want unmatched no_fingerprint_match", outcome)
	}
	if len(resolver.calls) != 0 {
		t.Fatalf("resolver called %d times for empty matches, want 0", len(resolver.calls))
	}
}

func TestReconcilePicksHighestScore(t *testing.T) {
	resolver := &stubResolver{meta: map[string]musicbrainz.Metadata{
		"rec-high": completeMeta("rec-high"),
	}}
	matches := []acoustid.Match{
		{RecordingID: "rec-low", Score: 0.61},
		{RecordingID: "rec-high", Score: 0.97},
	}

	outcome := Reconcile(context.Background(), matches, 0.5, resolver)
	if !outcome.Matched() {
		t.Fatalf("outcome = %+v, want matched", outcome)
	}
	if outcome.Match.RecordingID != "rec-high" {
		t.Fatalf("selected %q, want rec-high", outcome.Match.RecordingID)
	}
}

func TestReconcileFirstWinsOnTie(t *testing.T) {
	resolver := &stubResolver{meta: map[string]musicbrainz.Metadata{
		"rec-first": completeMeta("rec-first"),
	}}
	matches := []acoustid.Match{
		{RecordingID: "rec-first", Score: 0.8},
		{RecordingID: "rec-second", Score: 0.8},
	}

	outcome := Reconcile(context.Background(), matches, 0.5, resolver)
	if outcome.Match.RecordingID != "rec-first" {
		t.Fatalf("selected %q, want first candidate on tie", outcome.Match.RecordingID)
	}
}

func TestReconcileThresholdIsInclusive(t *testing.T) {
	resolver := &stubResolver{meta: map[string]musicbrainz.Metadata{
		"rec-edge": completeMeta("rec-edge"),
	}}
	matches := []acoustid.Match{{RecordingID: "rec-edge", Score: 0.5}}

	outcome := Reconcile(context.Background(), matches, 0.5, resolver)
	if !outcome.Matched() {
		t.Fatalf("outcome = %+v, want score equal to threshold accepted", outcome)
	}
}

func TestReconcileLowConfidence(t *testing.T) {
	resolver := &stubResolver{}
	matches := []acoustid.Match{{RecordingID: "rec-weak", Score: 0.49}}

	outcome := Reconcile(context.Background(), matches, 0.5, resolver)
	if outcome.Status != StatusUnmatched || outcome.Reason != ReasonLowConfidence {
		t.Fatalf("outcome = %+v, want unmatched low_confidence", outcome)
	}
	if len(resolver.calls) != 0 {
		t.Fatalf("resolver called for below-threshold match, want no calls")
	}
}

func TestReconcileIncompleteMetadata(t *testing.T) {
	resolver := &stubResolver{meta: map[string]musicbrainz.Metadata{
		"rec-thin": {Title: "Untitled Demo"},
	}}
	matches := []acoustid.Match{{RecordingID: "rec-thin", Score: 0.9}}

	outcome := Reconcile(context.Background(), matches, 0.5, resolver)
	if outcome.Status != StatusUnmatched || outcome.Reason != ReasonMetadataIncomplete {
		t.Fatalf("outcome = %+v, want unmatched metadata_incomplete", outcome)
	}
}

func TestReconcileResolverError(t *testing.T) {
	resolver := &stubResolver{err: errors.New("connection reset")}
	matches := []acoustid.Match{{RecordingID: "rec-err", Score: 0.9}}

	outcome := Reconcile(context.Background(), matches, 0.5, resolver)
	if outcome.Status != StatusUnmatched || outcome.Reason != ReasonMetadataIncomplete {
		t.Fatalf("outcome = %+v, want unmatched metadata_incomplete on resolver failure", outcome)
	}
}
