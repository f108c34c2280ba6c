package whisper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediatools/internal/artifact"
	"mediatools/internal/services"
)

// DefaultBinary is the whisper.cpp CLI entrypoint.
const DefaultBinary = "whisper-cli"

// Config selects the binary, model, and language for transcription runs.
type Config struct {
	Binary   string
	Model    string
	Language string // "auto" enables language detection
}

// Version identifies the capability for cache keying; bump when the
// invocation or parsing changes in a way that alters output.
const Version = "1"

// Service invokes whisper.cpp and parses its JSON output.
type Service struct {
	cfg    Config
	runner services.CommandRunner
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "auto"
	}
	return &Service{cfg: cfg, runner: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	s.runner = runner
}

// Model returns the configured model name for logging and cache keys.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Language returns the configured language selection.
func (s *Service) Language() string {
	return s.cfg.Language
}

// Transcribe runs the tool against source and returns the parsed transcript.
// outputDir receives the tool's JSON output; it is created when missing.
// The call honors ctx cancellation: the subprocess is killed and the error
// surfaces as transient so the pipeline's retry policy applies.
func (s *Service) Transcribe(ctx context.Context, source, outputDir string) (artifact.Transcript, error) {
	var transcript artifact.Transcript

	if strings.TrimSpace(source) == "" {
		return transcript, services.Wrap(services.ErrValidation, "whisper", "transcribe", "source path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return transcript, services.Wrap(services.ErrTransient, "whisper", "transcribe", "ensure output dir", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	outPrefix := filepath.Join(outputDir, baseName)

	args := s.buildArgs(source, outPrefix)
	if err := s.runner(ctx, s.cfg.Binary, args...); err != nil {
		if ctx.Err() != nil {
			return transcript, services.Wrap(services.ErrTransient, "whisper", "transcribe", "cancelled or timed out", ctx.Err())
		}
		return transcript, services.Wrap(services.ErrTransient, "whisper", "transcribe", "", err)
	}

	jsonPath := outPrefix + ".json"
	transcript, err := parseOutput(jsonPath)
	if err != nil {
		return transcript, err
	}
	return transcript, nil
}

func (s *Service) buildArgs(source, outPrefix string) []string {
	args := []string{
		"-f", source,
		"--output-json-full",
		"--output-file", outPrefix,
		"--no-prints",
	}
	if s.cfg.Model != "" {
		args = append(args, "--model", s.cfg.Model)
	}
	args = append(args, "--language", s.cfg.Language)
	return args
}

// Describe returns a stable string of the knobs that influence output,
// suitable for a backend config digest.
func (s *Service) Describe() string {
	return fmt.Sprintf("binary=%s model=%s language=%s", s.cfg.Binary, s.cfg.Model, s.cfg.Language)
}
