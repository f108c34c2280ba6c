package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var withTranscribe bool
	var withRemoveBG bool

	cmd := &cobra.Command{
		Use:   "scan PATH...",
		Short: "Classify and process files through the backend pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args, recursive)
			if err != nil {
				return err
			}

			o, closeCache, err := ctx.newOrchestrator(registryOptions{
				hash:       true,
				transcribe: withTranscribe,
				removeBG:   withRemoveBG,
			})
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
				rows = append(rows, outcomeRow(outcome))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Kind", "Status", "Detail"},
				rows,
				nil,
			))

			completed, failed, unsupported := report.Counts()
			fmt.Fprintf(out, "%d completed, %d failed, %d unsupported\n", completed, failed, unsupported)
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(report.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&withTranscribe, "transcribe", false, "Transcribe audio and video files")
	cmd.Flags().BoolVar(&withRemoveBG, "removebg", false, "Remove image backgrounds")
	return cmd
}
