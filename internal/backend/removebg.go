package backend

import (
	"context"
	"path/filepath"
	"strings"

	"mediatools/internal/artifact"
	"mediatools/internal/fingerprint"
	"mediatools/internal/media"
	"mediatools/internal/services/rembg"
)

// RemoveBGBackend fills the removebg slot for images. The masked copy is
// written next to the source as <name>.nobg.png; the source is untouched.
type RemoveBGBackend struct {
	svc  *rembg.Service
	desc Descriptor
}

// NewRemoveBGBackend builds the background removal backend around svc.
func NewRemoveBGBackend(svc *rembg.Service) *RemoveBGBackend {
	return &RemoveBGBackend{
		svc:  svc,
		desc: NewDescriptor("removebg", rembg.Version, svc.Describe()),
	}
}

func (b *RemoveBGBackend) Descriptor() Descriptor { return b.desc }

func (b *RemoveBGBackend) Slot() Slot { return SlotRemoveBG }

func (b *RemoveBGBackend) AppliesTo(kind media.Kind) bool {
	return kind == media.KindImage
}

func (b *RemoveBGBackend) FingerprintKey(req Request) fingerprint.Fingerprint {
	return req.Digest
}

// OutputPath returns where the masked copy of source is written.
func OutputPath(source string) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	return base + ".nobg.png"
}

func (b *RemoveBGBackend) Apply(ctx context.Context, req Request) (artifact.Artifact, error) {
	out, err := b.svc.Remove(ctx, req.Path, OutputPath(req.Path))
	if err != nil {
		return artifact.Artifact{}, err
	}
	return artifact.NewImage(out), nil
}
