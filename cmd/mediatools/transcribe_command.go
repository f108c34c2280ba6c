package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediatools/internal/artifact"
	"mediatools/internal/backend"
	"mediatools/internal/services/srt"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var format string
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "transcribe PATH...",
		Short: "Transcribe audio and video files to text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case "srt", "json", "text":
			default:
				return fmt.Errorf("unsupported format %q (srt, json, or text)", format)
			}

			files, err := collectFiles(args, recursive)
			if err != nil {
				return err
			}

			o, closeCache, err := ctx.newOrchestrator(registryOptions{transcribe: true})
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
				art, ok := outcome.ArtifactFor(backend.SlotTranscribe)
				if !ok {
					if outcome.Failure != nil {
						fmt.Fprintf(out, "%s: %s\n", outcome.Path, outcome.Failure)
					} else {
						fmt.Fprintf(out, "%s: skipped (%s)\n", outcome.Path, outcome.Kind)
					}
					continue
				}

				rendered, err := renderTranscript(*art.Transcript, format)
				if err != nil {
					return err
				}
				if toStdout {
					fmt.Fprint(out, rendered)
					continue
				}

				target := transcriptPath(outcome.Path, format)
				if err := os.WriteFile(target, []byte(rendered), 0o644); err != nil {
					return fmt.Errorf("write transcript %s: %w", target, err)
				}
				fmt.Fprintf(out, "%s -> %s (%s, %d segments)\n",
					outcome.Path, target, art.Transcript.Language, len(art.Transcript.Segments))
			}

			if _, failed, _ := report.Counts(); failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(report.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().StringVarP(&format, "format", "f", "srt", "Transcript format: srt, json, or text")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print transcripts instead of writing sidecar files")
	return cmd
}

func renderTranscript(tr artifact.Transcript, format string) (string, error) {
	switch format {
	case "srt":
		return srt.Format(tr.ToSubtitleTrack()), nil
	case "json":
		data, err := json.MarshalIndent(tr, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode transcript: %w", err)
		}
		return string(data) + "\n", nil
	case "text":
		return tr.PlainText() + "\n", nil
	}
	return "", fmt.Errorf("unsupported format %q", format)
}

func transcriptPath(source, format string) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	switch format {
	case "json":
		return base + ".json"
	case "text":
		return base + ".txt"
	}
	return base + ".srt"
}
