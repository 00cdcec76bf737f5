package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunetidy/internal/acoustid"
	"tunetidy/internal/config"
	"tunetidy/internal/fingerprint"
	"tunetidy/internal/musicbrainz"
	"tunetidy/internal/reconcile"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "identify <file>",
		Short: "Fingerprint one file and show its match candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			fper := fingerprint.New(
				fingerprint.WithBinary(cfg.FpcalcBinary()),
				fingerprint.WithTimeout(cfg.AcoustIDTimeout()))
			fp, err := fper.Compute(cmd.Context(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Duration: %ds\n", fp.DurationSeconds)
			fmt.Fprintf(out, "Fingerprint digest: %s\n", fp.Digest())

			lookup, err := acoustid.New(cfg.AcoustID.APIKey, cfg.AcoustID.BaseURL,
				acoustid.WithTimeout(cfg.AcoustIDTimeout()))
			if err != nil {
				return err
			}
			matches, err := lookup.Lookup(cmd.Context(), fp.Fingerprint, fp.DurationSeconds)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintln(out, "No fingerprint matches.")
				return nil
			}

			rows := make([][]string, 0, len(matches))
			for _, match := range matches {
				rows = append(rows, []string{
					match.RecordingID,
					fmt.Sprintf("%.2f", match.Score),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Recording", "Score"}, rows, []columnAlignment{alignLeft, alignRight}))

			resolver := musicbrainz.New(cfg.MusicBrainz.BaseURL,
				musicbrainz.WithMinInterval(cfg.MinRequestInterval()))
			outcome := reconcile.Reconcile(cmd.Context(), matches, cfg.AcoustID.Threshold, resolver)
			if !outcome.Matched() {
				fmt.Fprintf(out, "Outcome: unmatched (%s)\n", outcome.Reason)
				return nil
			}

			meta := outcome.Metadata
			fmt.Fprintf(out, "Outcome: matched (%.0f%%)\n", outcome.Match.Score*100)
			fmt.Fprintf(out, "  Title:  %s\n", meta.Title)
			fmt.Fprintf(out, "  Artist: %s\n", meta.Artist)
			fmt.Fprintf(out, "  Album:  %s", meta.Album)
			if meta.Year != "" {
				fmt.Fprintf(out, " (%s)", meta.Year)
			}
			fmt.Fprintln(out)
			if meta.TrackNumber > 0 {
				fmt.Fprintf(out, "  Track:  %d", meta.TrackNumber)
				if meta.TotalTracks > 0 {
					fmt.Fprintf(out, " of %d", meta.TotalTracks)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
