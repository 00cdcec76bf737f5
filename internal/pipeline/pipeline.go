package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tunetidy/internal/acoustid"
	"tunetidy/internal/config"
	"tunetidy/internal/fileutil"
	"tunetidy/internal/fingerprint"
	"tunetidy/internal/logging"
	"tunetidy/internal/lookupcache"
	"tunetidy/internal/musicbrainz"
	"tunetidy/internal/organizer"
	"tunetidy/internal/preflight"
	"tunetidy/internal/reconcile"
	"tunetidy/internal/scanner"
	"tunetidy/internal/services"
	"tunetidy/internal/tagger"
)

// Fingerprinter computes an acoustic fingerprint for a file.
type Fingerprinter interface {
	Compute(ctx context.Context, path string) (fingerprint.Result, error)
}

// Options carries the collaborators a Pipeline needs. Config, Fingerprinter,
// Lookup, and Resolver are required; Cache and Logger are optional.
type Options struct {
	Config        *config.Config
	Logger        *slog.Logger
	Fingerprinter Fingerprinter
	Lookup        acoustid.Lookuper
	Resolver      musicbrainz.Resolver
	Cache         *lookupcache.Store
}

// Pipeline runs the organize flow over a source tree.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	fper      Fingerprinter
	lookup    acoustid.Lookuper
	resolver  musicbrainz.Resolver
	cache     *lookupcache.Store
	tagger    *tagger.Tagger
	organizer *organizer.Organizer
}

// New validates the options and builds a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.New("pipeline requires config")
	}
	if opts.Fingerprinter == nil || opts.Lookup == nil || opts.Resolver == nil {
		return nil, errors.New("pipeline requires fingerprinter, lookup, and resolver")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:       opts.Config,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		fper:      opts.Fingerprinter,
		lookup:    opts.Lookup,
		resolver:  opts.Resolver,
		cache:     opts.Cache,
		tagger:    tagger.New(logger),
		organizer: organizer.New(opts.Config, logger),
	}, nil
}

// Run scans the source tree and processes up to limit files; limit <= 0
// means no cap. Only a failed preflight or an unusable source root ends the
// run early; per-file failures land in the report.
func (p *Pipeline) Run(ctx context.Context, limit int) (*Report, error) {
	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "ensure directories", "create working directories", err)
	}

	lock := flock.New(p.cfg.Paths.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "run", "acquire lock", fmt.Sprintf("lock %s", p.cfg.Paths.LockPath), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "run", "acquire lock", "another tunetidy run is already active", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)

	checks := preflight.RunAll(ctx, p.cfg)
	if !preflight.Passed(checks) {
		var failed []string
		for _, check := range checks {
			if !check.Passed {
				failed = append(failed, fmt.Sprintf("%s: %s", check.Name, check.Detail))
			}
		}
		return nil, services.Wrap(services.ErrValidation, "run", "preflight", strings.Join(failed, "; "), nil)
	}

	files, err := scanner.New(p.cfg.Paths.SourceDir, logger).Scan(p.cfg.Paths.Unmatched)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: runID, DryRun: p.cfg.Options.DryRun}
	logger.Info("run started",
		logging.Int("files", len(files)),
		logging.Bool("dry_run", p.cfg.Options.DryRun))

	for _, file := range files {
		if limit > 0 && len(report.Results) >= limit {
			logger.Info("limit reached", logging.Int("limit", limit))
			break
		}
		if err := ctx.Err(); err != nil {
			return report, services.Wrap(services.ErrValidation, "run", "process files", "run canceled", err)
		}
		result := p.processFile(ctx, file)
		report.Results = append(report.Results, result)
		if services.Fatal(result.Err) {
			return report, result.Err
		}
	}

	summary := report.Summarize()
	logger.Info("run finished",
		logging.Int("matched", summary.Matched),
		logging.Int("unmatched", summary.Total-summary.Matched-summary.Errors),
		logging.Int("errors", summary.Errors),
		logging.Int("moved", summary.Moved),
		logging.Int("skipped", summary.Skipped))
	return report, nil
}

func (p *Pipeline) processFile(ctx context.Context, file scanner.TrackFile) FileResult {
	ctx = services.WithTrack(ctx, file.RelPath)
	logger := logging.WithContext(ctx, p.logger)
	result := FileResult{File: file}

	matches := p.candidateMatches(ctx, file, logger)
	result.Outcome = reconcile.Reconcile(ctx, matches, p.cfg.AcoustID.Threshold, p.resolver)

	backupPath, err := p.organizer.Backup(file)
	if err != nil {
		result.Err = err
		return result
	}
	result.Placement.BackupPath = backupPath

	if result.Outcome.Matched() {
		changes, err := p.tagger.Apply(file.AbsPath, result.Outcome.Metadata, p.cfg.Options.DryRun)
		if err != nil {
			result.Err = err
			return result
		}
		result.Changes = changes

		placement, err := p.organizer.PlaceMatched(file, result.Outcome.Metadata)
		if err != nil {
			result.Err = err
			return result
		}
		placement.BackupPath = backupPath
		result.Placement = placement
	} else {
		logger.Info("unmatched", logging.String("reason", string(result.Outcome.Reason)))
		placement, err := p.organizer.PlaceUnmatched(file)
		if err != nil {
			result.Err = err
			return result
		}
		placement.BackupPath = backupPath
		result.Placement = placement
	}

	if result.Placement.Moved {
		fileutil.PruneEmptyDirs(filepath.Dir(file.AbsPath), p.cfg.Paths.SourceDir)
	}
	return result
}

// candidateMatches fingerprints the file and looks it up, consulting the
// cache first. Fingerprint and lookup failures degrade to an empty match
// list so the file is quarantined instead of failing the run.
func (p *Pipeline) candidateMatches(ctx context.Context, file scanner.TrackFile, logger *slog.Logger) []acoustid.Match {
	fp, err := p.fper.Compute(ctx, file.AbsPath)
	if err != nil {
		logger.Warn("fingerprint failed", logging.Error(err))
		return nil
	}

	digest := fp.Digest()
	if p.cache != nil {
		if matches, found, err := p.cache.Get(ctx, digest); err != nil {
			logger.Warn("cache read failed", logging.Error(err))
		} else if found {
			logger.Debug("lookup served from cache", logging.Int("candidates", len(matches)))
			return matches
		}
	}

	matches, err := p.lookup.Lookup(ctx, fp.Fingerprint, fp.DurationSeconds)
	if err != nil {
		logger.Warn("lookup failed", logging.Error(err))
		return nil
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, digest, matches); err != nil {
			logger.Warn("cache write failed", logging.Error(err))
		}
	}
	return matches
}
