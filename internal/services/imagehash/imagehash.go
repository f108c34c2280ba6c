// Package imagehash wraps perceptual image hashing behind the narrow
// contract the hash backend consumes.
package imagehash

import (
	"image"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"

	"mediatools/internal/fingerprint"
	"mediatools/internal/services"
)

// DefaultHashSize yields a 64-bit average hash.
const DefaultHashSize = 8

// Hasher computes perceptual hashes for image files.
type Hasher struct {
	size int
}

// NewHasher builds a hasher with the given edge length (DefaultHashSize
// when zero or negative).
func NewHasher(size int) *Hasher {
	if size <= 0 {
		size = DefaultHashSize
	}
	return &Hasher{size: size}
}

// Size returns the configured hash edge length.
func (h *Hasher) Size() int {
	return h.size
}

// HashFile decodes the image at path and returns its average hash. Decode
// failures are permanent: a corrupt image will not improve on retry.
func (h *Hasher) HashFile(path string) (fingerprint.Perceptual, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fingerprint.Perceptual{}, services.Wrap(services.ErrPermanent, "imagehash", "open", path, err)
	}
	return h.HashImage(img)
}

// HashImage hashes an already-decoded image.
func (h *Hasher) HashImage(img image.Image) (fingerprint.Perceptual, error) {
	ext, err := goimagehash.ExtAverageHash(img, h.size, h.size)
	if err != nil {
		return fingerprint.Perceptual{}, services.Wrap(services.ErrPermanent, "imagehash", "hash", "", err)
	}
	return fingerprint.NewPerceptual(ext.GetHash(), h.size), nil
}
