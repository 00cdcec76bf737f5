package pipeline

import (
	"tunetidy/internal/organizer"
	"tunetidy/internal/reconcile"
	"tunetidy/internal/scanner"
	"tunetidy/internal/tagger"
)

// FileResult captures everything that happened to one file.
type FileResult struct {
	File      scanner.TrackFile
	Outcome   reconcile.Outcome
	Placement organizer.Placement
	Changes   map[string]tagger.FieldChange
	Err       error
}

// Report summarizes a run.
type Report struct {
	RunID   string
	DryRun  bool
	Results []FileResult
}

// Summary aggregates result counts for display.
type Summary struct {
	Total     int
	Matched   int
	Unmatched map[reconcile.Reason]int
	Moved     int
	Skipped   int
	Errors    int
}

// Summarize tallies the run's outcomes.
func (r *Report) Summarize() Summary {
	summary := Summary{
		Total:     len(r.Results),
		Unmatched: make(map[reconcile.Reason]int),
	}
	for _, result := range r.Results {
		switch {
		case result.Err != nil:
			summary.Errors++
		case result.Outcome.Matched():
			summary.Matched++
		default:
			summary.Unmatched[result.Outcome.Reason]++
		}
		if result.Placement.Moved {
			summary.Moved++
		}
		if result.Placement.Skipped {
			summary.Skipped++
		}
	}
	return summary
}
