package backend

import (
	"context"
	"fmt"

	"mediatools/internal/artifact"
	"mediatools/internal/fingerprint"
	"mediatools/internal/media"
	"mediatools/internal/services/imagehash"
)

// HashBackend fills the dedup slot. It records the file's cryptographic
// digest for every kind and adds a perceptual hash for images so near
// duplicates can be grouped by Hamming distance.
type HashBackend struct {
	hasher *imagehash.Hasher
	desc   Descriptor
}

// NewHashBackend builds the hash backend around the given perceptual
// hasher.
func NewHashBackend(hasher *imagehash.Hasher) *HashBackend {
	return &HashBackend{
		hasher: hasher,
		desc:   NewDescriptor("hash", "1", fmt.Sprintf("hash_size=%d", hasher.Size())),
	}
}

func (b *HashBackend) Descriptor() Descriptor { return b.desc }

func (b *HashBackend) Slot() Slot { return SlotDedup }

// AppliesTo accepts every classified kind; hashing needs only bytes.
func (b *HashBackend) AppliesTo(kind media.Kind) bool {
	return kind.Known()
}

func (b *HashBackend) FingerprintKey(req Request) fingerprint.Fingerprint {
	return req.Digest
}

func (b *HashBackend) Apply(ctx context.Context, req Request) (artifact.Artifact, error) {
	value := artifact.HashValue{SHA256: string(req.Digest)}

	if req.Kind == media.KindImage {
		if err := ctx.Err(); err != nil {
			return artifact.Artifact{}, err
		}
		perceptual, err := b.hasher.HashFile(req.Path)
		if err != nil {
			return artifact.Artifact{}, err
		}
		value.Perceptual = perceptual.String()
		value.HashSize = b.hasher.Size()
	}

	return artifact.NewHash(value), nil
}
