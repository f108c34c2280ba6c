package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediatools/internal/backend"
)

func newHashCommand(ctx *commandContext) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "hash PATH...",
		Short: "Print content and perceptual hashes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}

			rows := make([][]string, 0, len(report.Outcomes))
			for _, outcome := range report.Outcomes {
				sha, perceptual := "", ""
				if art, ok := outcome.ArtifactFor(backend.SlotDedup); ok && art.Hash != nil {
					sha = art.Hash.SHA256
					perceptual = art.Hash.Perceptual
				} else if outcome.Failure != nil {
					sha = outcome.Failure.String()
				}
				rows = append(rows, []string{outcome.Path, sha, perceptual})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "SHA-256", "Perceptual"},
				rows,
				nil,
			))

			if _, failed, _ := report.Counts(); failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(report.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	return cmd
}
