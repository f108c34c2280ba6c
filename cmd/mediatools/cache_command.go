package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediatools/internal/cache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Result cache utilities",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func (c *commandContext) openStore() (*cache.SQLiteStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Dir == "" {
		return nil, fmt.Errorf("no durable cache configured (set cache.dir)")
	}
	return cache.OpenSQLite(cfg.Cache.Dir)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show durable cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Len()
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					Path    string `json:"path"`
					Entries int64  `json:"entries"`
				}{Path: store.Path(), Entries: entries})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache database: %s\n", store.Path())
			fmt.Fprintf(out, "Entries: %d\n", entries)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every durable cache entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Purge()
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					Removed int64 `json:"removed"`
				}{Removed: removed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
			return nil
		},
	}
}
