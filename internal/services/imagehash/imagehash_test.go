package imagehash

import (
	"path/filepath"
	"testing"

	"mediatools/internal/testsupport"
)

func TestHashFileStableAcrossLosslessReencode(t *testing.T) {
	dir := t.TempDir()
	img := testsupport.GradientImage(64, 64)

	first := filepath.Join(dir, "a.png")
	second := filepath.Join(dir, "b.png")
	testsupport.WritePNG(t, first, img)
	testsupport.WritePNG(t, second, img)

	hasher := NewHasher(8)
	ha, err := hasher.HashFile(first)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	hb, err := hasher.HashFile(second)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}

	d, err := ha.Distance(hb)
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if d != 0 {
		t.Errorf("distance = %d, want 0 for identical pixel content", d)
	}
}

func TestHashFileSeparatesDissimilarImages(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "grad.png")
	b := filepath.Join(dir, "inv.png")
	testsupport.WritePNG(t, a, testsupport.GradientImage(64, 64))
	testsupport.WritePNG(t, b, testsupport.InvertedGradientImage(64, 64))

	hasher := NewHasher(8)
	ha, err := hasher.HashFile(a)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	hb, err := hasher.HashFile(b)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}

	d, err := ha.Distance(hb)
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if d <= 5 {
		t.Errorf("distance = %d, want above near-duplicate threshold", d)
	}
}

func TestHashFileCorruptInputIsPermanent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	testsupport.WriteSRT(t, path, "not an image")

	hasher := NewHasher(0)
	if hasher.Size() != DefaultHashSize {
		t.Errorf("Size = %d, want default", hasher.Size())
	}
	if _, err := hasher.HashFile(path); err == nil {
		t.Fatal("expected decode error")
	}
}
