package rembg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediatools/internal/services"
	"mediatools/internal/testsupport"
)

func TestRemoveWritesNewImage(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "photo.png")
	dest := filepath.Join(dir, "photo.nobg.png")
	testsupport.WritePNG(t, source, testsupport.GradientImage(20, 10))

	original, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}

	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		// Emulate the tool writing its masked output.
		testsupport.WritePNG(t, dest, testsupport.GradientImage(20, 10))
		return nil
	})

	out, err := svc.Remove(context.Background(), source, dest)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if out.Path != dest {
		t.Errorf("Path = %q, want %q", out.Path, dest)
	}
	if out.Width != 20 || out.Height != 10 {
		t.Errorf("dimensions = %dx%d, want 20x10", out.Width, out.Height)
	}

	// Input must be untouched.
	after, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	if string(after) != string(original) {
		t.Error("source image was modified")
	}
}

func TestRemoveUndecodableOutputIsPermanent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "photo.png")
	dest := filepath.Join(dir, "photo.nobg.png")
	testsupport.WritePNG(t, source, testsupport.GradientImage(8, 8))

	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.WriteFile(dest, []byte("garbage"), 0o644)
	})

	_, err := svc.Remove(context.Background(), source, dest)
	if err == nil {
		t.Fatal("expected error for undecodable output")
	}
	if services.IsTransient(err) {
		t.Error("undecodable output should be permanent")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("garbage output file should have been removed")
	}
}

func TestRemoveToolFailureIsTransient(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "photo.png")
	testsupport.WritePNG(t, source, testsupport.GradientImage(8, 8))

	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 137")
	})

	_, err := svc.Remove(context.Background(), source, filepath.Join(dir, "out.png"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !services.IsTransient(err) {
		t.Error("tool crash should be transient")
	}
}
