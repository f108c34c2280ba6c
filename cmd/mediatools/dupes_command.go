package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediatools/internal/batch"
)

func newDupesCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var threshold int

	cmd := &cobra.Command{
		Use:   "dupes PATH...",
		Short: "Find exact and near-duplicate files by content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Dedup.NearDuplicateThreshold
			}

			files, err := collectFiles(args, recursive)
			if err != nil {
				return err
			}

			o, closeCache, err := ctx.newOrchestrator(registryOptions{hash: true})
			if err != nil {
				return err
			}
			defer closeCache()

			runCtx, cancel := signalContext()
			defer cancel()
			report := o.Run(runCtx, files)
			groups := batch.FindDuplicates(report.Outcomes, threshold)

			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					RunID  string                 `json:"run_id"`
					Groups []batch.DuplicateGroup `json:"groups"`
				}{RunID: report.RunID, Groups: groups})
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No duplicates found")
				return nil
			}
			rows := make([][]string, 0, len(groups))
			for i, group := range groups {
				match := "near"
				if group.Exact {
					match = "exact"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					match,
					strings.Join(group.Paths, "\n"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Group", "Match", "Files"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().IntVar(&threshold, "threshold", 5, "Maximum Hamming distance for near duplicates")
	return cmd
}
