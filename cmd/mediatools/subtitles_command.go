package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediatools/internal/backend"
	"mediatools/internal/services/srt"
)

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	subtitlesCmd := &cobra.Command{
		Use:   "subtitles",
		Short: "Subtitle track utilities",
	}
	subtitlesCmd.AddCommand(newSubtitlesAlignCommand(ctx))
	return subtitlesCmd
}

func newSubtitlesAlignCommand(ctx *commandContext) *cobra.Command {
	var referencePath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "align SUBTITLE",
		Short: "Retime a subtitle track against a reference track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refData, err := os.ReadFile(referencePath)
			if err != nil {
				return fmt.Errorf("read reference %s: %w", referencePath, err)
			}
			reference, err := srt.Parse(refData)
			if err != nil {
				return fmt.Errorf("parse reference %s: %w", referencePath, err)
			}

			o, closeCache, err := ctx.newOrchestrator(registryOptions{
				align:          true,
				alignReference: reference,
			})
			if err != nil {
				return err
			}
			defer closeCache()

			runCtx, cancel := signalContext()
			defer cancel()
			report := o.Run(runCtx, args)

			outcome := report.Outcomes[0]
			if ctx.jsonOutput() {
				return writeJSON(cmd, outcome)
			}
			if outcome.Failure != nil {
				return fmt.Errorf("align %s: %s", outcome.Path, outcome.Failure)
			}
			art, ok := outcome.ArtifactFor(backend.SlotSubAlign)
			if !ok || art.Subtitle == nil {
				return fmt.Errorf("align %s: no aligned track produced (%s)", outcome.Path, outcome.Status)
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				base := strings.TrimSuffix(outcome.Path, filepath.Ext(outcome.Path))
				target = base + ".aligned.srt"
			}
			if err := os.WriteFile(target, []byte(srt.Format(*art.Subtitle)), 0o644); err != nil {
				return fmt.Errorf("write aligned track %s: %w", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d cues)\n",
				outcome.Path, target, len(art.Subtitle.Cues))
			return nil
		},
	}

	cmd.Flags().StringVar(&referencePath, "reference", "", "Reference subtitle track (SRT) to align against")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination for the aligned track")
	_ = cmd.MarkFlagRequired("reference")
	return cmd
}
