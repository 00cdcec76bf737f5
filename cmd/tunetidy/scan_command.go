package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tunetidy/internal/logging"
	"tunetidy/internal/scanner"
	"tunetidy/internal/tagger"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List the MP3 files a run would process",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			files, err := scanner.New(cfg.Paths.SourceDir, logging.NewNop()).Scan(cfg.Paths.Unmatched)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				summary, err := tagger.ReadSummary(file.AbsPath)
				if err != nil {
					summary = tagger.Summary{}
				}
				track := ""
				if summary.Track > 0 {
					track = strconv.Itoa(summary.Track)
				}
				rows = append(rows, []string{
					file.RelPath,
					summary.Artist,
					summary.Album,
					track,
					summary.Title,
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No MP3 files found under %s\n", cfg.Paths.SourceDir)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Artist", "Album", "#", "Title"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
			fmt.Fprintf(out, "%d file(s)\n", len(rows))
			return nil
		},
	}
}
