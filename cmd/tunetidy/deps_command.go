package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tunetidy/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binaries, paths, and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "FAIL"
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if !preflight.Passed(results) {
				return errors.New("one or more preflight checks failed")
			}
			return nil
		},
	}
}
