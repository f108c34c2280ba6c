package fingerprint

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
)

// Perceptual is a perceptual hash: Size*Size bits packed into words. Close
// Hamming distance means visually similar content.
type Perceptual struct {
	Bits []uint64
	Size int
}

// NewPerceptual wraps hash words produced by a perceptual hasher.
func NewPerceptual(words []uint64, size int) Perceptual {
	cp := make([]uint64, len(words))
	copy(cp, words)
	return Perceptual{Bits: cp, Size: size}
}

// Distance returns the Hamming distance between two hashes of equal shape.
func (p Perceptual) Distance(q Perceptual) (int, error) {
	if p.Size != q.Size || len(p.Bits) != len(q.Bits) {
		return 0, errors.New("perceptual hash shapes differ")
	}
	dist := 0
	for i := range p.Bits {
		dist += bits.OnesCount64(p.Bits[i] ^ q.Bits[i])
	}
	return dist, nil
}

// String encodes the hash as "<size>:<hex words>", stable for persistence.
func (p Perceptual) String() string {
	buf := make([]byte, 0, len(p.Bits)*8)
	for _, w := range p.Bits {
		for shift := 56; shift >= 0; shift -= 8 {
			buf = append(buf, byte(w>>shift))
		}
	}
	return fmt.Sprintf("%d:%s", p.Size, hex.EncodeToString(buf))
}

// ParsePerceptual reverses String.
func ParsePerceptual(s string) (Perceptual, error) {
	var size int
	var hexPart string
	if _, err := fmt.Sscanf(s, "%d:%s", &size, &hexPart); err != nil {
		return Perceptual{}, fmt.Errorf("parse perceptual hash %q: %w", s, err)
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return Perceptual{}, fmt.Errorf("parse perceptual hash %q: %w", s, err)
	}
	if len(raw) == 0 || len(raw)%8 != 0 {
		return Perceptual{}, fmt.Errorf("parse perceptual hash %q: bad length", s)
	}
	words := make([]uint64, len(raw)/8)
	for i := range words {
		for j := 0; j < 8; j++ {
			words[i] = words[i]<<8 | uint64(raw[i*8+j])
		}
	}
	return Perceptual{Bits: words, Size: size}, nil
}
