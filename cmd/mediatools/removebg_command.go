package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediatools/internal/backend"
)

func newRemoveBGCommand(ctx *commandContext) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "removebg PATH...",
		Short: "Write background-removed copies of images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args, recursive)
			if err != nil {
				return err
			}

			o, closeCache, err := ctx.newOrchestrator(registryOptions{removeBG: true})
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

			out := cmd.OutOrStdout()
			for _, outcome := range report.Outcomes {
				art, ok := outcome.ArtifactFor(backend.SlotRemoveBG)
				switch {
				case ok && art.Image != nil:
					fmt.Fprintf(out, "%s -> %s (%dx%d)\n",
						outcome.Path, art.Image.Path, art.Image.Width, art.Image.Height)
				case outcome.Failure != nil:
					fmt.Fprintf(out, "%s: %s\n", outcome.Path, outcome.Failure)
				default:
					fmt.Fprintf(out, "%s: skipped (%s)\n", outcome.Path, outcome.Kind)
				}
			}

			if _, failed, _ := report.Counts(); failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(report.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	return cmd
}
