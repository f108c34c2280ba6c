package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromFileMatchesFromBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	data := []byte("identical content")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fromFile, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if fromFile != FromBytes(data) {
		t.Error("file and byte digests differ for identical content")
	}

	other := filepath.Join(dir, "copy.bin")
	if err := os.WriteFile(other, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fromCopy, err := FromFile(other)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if fromCopy != fromFile {
		t.Error("byte-identical files produced different fingerprints")
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPerceptualDistance(t *testing.T) {
	a := NewPerceptual([]uint64{0xFF00FF00FF00FF00}, 8)
	b := NewPerceptual([]uint64{0xFF00FF00FF00FF01}, 8)
	c := NewPerceptual([]uint64{^uint64(0xFF00FF00FF00FF00)}, 8)

	if d, err := a.Distance(a); err != nil || d != 0 {
		t.Errorf("self distance = %d, %v; want 0, nil", d, err)
	}
	if d, err := a.Distance(b); err != nil || d != 1 {
		t.Errorf("distance = %d, %v; want 1, nil", d, err)
	}
	if d, err := a.Distance(c); err != nil || d != 64 {
		t.Errorf("complement distance = %d, %v; want 64, nil", d, err)
	}

	mismatched := NewPerceptual([]uint64{0, 0}, 16)
	if _, err := a.Distance(mismatched); err == nil {
		t.Error("expected shape mismatch error")
	}
}

func TestPerceptualStringRoundtrip(t *testing.T) {
	p := NewPerceptual([]uint64{0xDEADBEEFCAFEF00D, 0x0123456789ABCDEF}, 16)
	parsed, err := ParsePerceptual(p.String())
	if err != nil {
		t.Fatalf("ParsePerceptual: %v", err)
	}
	if d, err := p.Distance(parsed); err != nil || d != 0 {
		t.Errorf("roundtrip distance = %d, %v; want 0, nil", d, err)
	}
	if parsed.Size != 16 {
		t.Errorf("Size = %d, want 16", parsed.Size)
	}
}

func TestParsePerceptualRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "8:", "8:zz", "notahash"} {
		if _, err := ParsePerceptual(s); err == nil {
			t.Errorf("ParsePerceptual(%q) succeeded, want error", s)
		}
	}
}
