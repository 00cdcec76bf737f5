package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tunetidy/internal/acoustid"
	"tunetidy/internal/config"
	"tunetidy/internal/fingerprint"
	"tunetidy/internal/logging"
	"tunetidy/internal/lookupcache"
	"tunetidy/internal/musicbrainz"
	"tunetidy/internal/pipeline"
	"tunetidy/internal/reconcile"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var dryRun bool
	var noDryRun bool
	var limit int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Identify, tag, and organize the source library",
		Long: "Fingerprints every MP3 under the source path, resolves metadata from\n" +
			"MusicBrainz, rewrites tags, and moves files into the configured layout.\n" +
			"Runs in preview mode unless --no-dry-run is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applySourceOverride(cfg, sourceFlag)
			if noDryRun {
				cfg.Options.DryRun = false
			}
			// --dry-run wins so a preview can always be forced, even when
			// the config opts out of it.
			if dryRun {
				cfg.Options.DryRun = true
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				LogFile: cfg.Paths.LogFile,
			})
			if err != nil {
				return err
			}

			lookup, err := acoustid.New(cfg.AcoustID.APIKey, cfg.AcoustID.BaseURL,
				acoustid.WithTimeout(cfg.AcoustIDTimeout()))
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Config: cfg,
				Logger: logger,
				Fingerprinter: fingerprint.New(
					fingerprint.WithBinary(cfg.FpcalcBinary()),
					fingerprint.WithTimeout(cfg.AcoustIDTimeout())),
				Lookup: lookup,
				Resolver: musicbrainz.New(cfg.MusicBrainz.BaseURL,
					musicbrainz.WithMinInterval(cfg.MinRequestInterval())),
			}

			if cfg.Options.CacheEnabled {
				cache, err := lookupcache.Open(cfg.Paths.CachePath)
				if err != nil {
					return err
				}
				defer cache.Close()
				opts.Cache = cache
			}

			p, err := pipeline.New(opts)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := p.Run(runCtx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printRunReport(out, report, verbose)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "Source directory to organize (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without applying them, regardless of config")
	cmd.Flags().BoolVar(&noDryRun, "no-dry-run", false, "Apply changes instead of previewing them")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Process at most this many files (0 = all)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-file decisions and tag changes")
	return cmd
}

// applySourceOverride repoints the source path and any paths that defaulted
// relative to it.
func applySourceOverride(cfg *config.Config, source string) {
	source = strings.TrimSpace(source)
	if source == "" {
		return
	}
	expanded, err := config.ExpandPath(source)
	if err != nil {
		expanded = source
	}
	if cfg.Paths.OutputDir == cfg.Paths.SourceDir {
		cfg.Paths.OutputDir = expanded
	}
	if cfg.Paths.BackupDir == filepath.Join(cfg.Paths.SourceDir, ".backup") {
		cfg.Paths.BackupDir = filepath.Join(expanded, ".backup")
	}
	cfg.Paths.SourceDir = expanded
}

func printRunReport(out io.Writer, report *pipeline.Report, verbose bool) {
	summary := report.Summarize()

	if report.DryRun {
		fmt.Fprintln(out, "Dry run: no files were changed. Use --no-dry-run to apply.")
	}

	if verbose || report.DryRun {
		rows := make([][]string, 0, len(report.Results))
		for _, result := range report.Results {
			rows = append(rows, []string{
				result.File.RelPath,
				describeOutcome(result),
				result.Placement.FinalPath,
			})
		}
		if len(rows) > 0 {
			fmt.Fprintln(out, renderTable([]string{"File", "Outcome", "Destination"}, rows, nil))
		}
	}

	summaryRows := [][]string{
		{"Processed", fmt.Sprintf("%d", summary.Total)},
		{"Matched", fmt.Sprintf("%d", summary.Matched)},
		{"Moved", fmt.Sprintf("%d", summary.Moved)},
		{"Already in place", fmt.Sprintf("%d", summary.Skipped)},
		{"Errors", fmt.Sprintf("%d", summary.Errors)},
	}
	for _, reason := range []reconcile.Reason{
		reconcile.ReasonNoFingerprintMatch,
		reconcile.ReasonLowConfidence,
		reconcile.ReasonMetadataIncomplete,
	} {
		if count := summary.Unmatched[reason]; count > 0 {
			summaryRows = append(summaryRows, []string{"Unmatched: " + string(reason), fmt.Sprintf("%d", count)})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"Summary", "Count"}, summaryRows, []columnAlignment{alignLeft, alignRight}))
}

func describeOutcome(result pipeline.FileResult) string {
	switch {
	case result.Err != nil:
		return "error: " + result.Err.Error()
	case result.Outcome.Matched():
		meta := result.Outcome.Metadata
		return fmt.Sprintf("matched %.0f%% %s - %s", result.Outcome.Match.Score*100, meta.Artist, meta.Title)
	default:
		return "unmatched: " + string(result.Outcome.Reason)
	}
}
