// Package rembg wraps the rembg command-line tool as the toolkit's
// background-removal capability.
package rembg

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"mediatools/internal/artifact"
	"mediatools/internal/services"
)

// DefaultBinary is the rembg CLI entrypoint.
const DefaultBinary = "rembg"

// Version identifies the capability for cache keying.
const Version = "1"

// Config selects the binary used for background removal.
type Config struct {
	Binary string
}

// Service invokes rembg and verifies its output.
type Service struct {
	cfg    Config
	runner services.CommandRunner
}

// NewService creates a background removal service.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	return &Service{cfg: cfg, runner: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	s.runner = runner
}

// Remove produces a copy of the image at source with its background masked,
// written to dest as PNG. The input file is never modified.
func (s *Service) Remove(ctx context.Context, source, dest string) (artifact.ImageOutput, error) {
	var out artifact.ImageOutput

	if strings.TrimSpace(source) == "" || strings.TrimSpace(dest) == "" {
		return out, services.Wrap(services.ErrValidation, "rembg", "remove", "source and dest paths required", nil)
	}

	if err := s.runner(ctx, s.cfg.Binary, "i", source, dest); err != nil {
		if ctx.Err() != nil {
			return out, services.Wrap(services.ErrTransient, "rembg", "remove", "cancelled or timed out", ctx.Err())
		}
		return out, services.Wrap(services.ErrTransient, "rembg", "remove", "", err)
	}

	// The tool exits zero on some unsupported inputs; verify the output
	// actually decodes before handing it to the pipeline.
	img, err := imaging.Open(dest)
	if err != nil {
		_ = os.Remove(dest)
		return out, services.Wrap(services.ErrPermanent, "rembg", "remove", "tool produced undecodable output", err)
	}

	bounds := img.Bounds()
	out = artifact.ImageOutput{
		Path:   dest,
		Format: "png",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
	return out, nil
}

// Describe returns a stable string of the knobs that influence output.
func (s *Service) Describe() string {
	return fmt.Sprintf("binary=%s", s.cfg.Binary)
}
