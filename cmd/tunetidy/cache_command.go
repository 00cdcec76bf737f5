package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunetidy/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the lookup cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cached lookup counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := lookupcache.Open(cfg.Paths.CachePath)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache path:  %s\n", cfg.Paths.CachePath)
			fmt.Fprintf(out, "Lookups:     %d\n", count)
			fmt.Fprintf(out, "Enabled:     %v\n", cfg.Options.CacheEnabled)
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := lookupcache.Open(cfg.Paths.CachePath)
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := store.Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached lookup(s)\n", deleted)
			return nil
		},
	})

	return cacheCmd
}
