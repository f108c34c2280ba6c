package backend

import (
	"context"
	"os"

	"mediatools/internal/artifact"
	"mediatools/internal/fingerprint"
	"mediatools/internal/media"
	"mediatools/internal/services"
	"mediatools/internal/services/srt"
)

// AlignBackend fills the subalign slot for subtitle files. It parses the
// input track and retimes it against a reference: either the fixed track
// supplied at construction, or, when none is set, a transcript artifact
// produced by an earlier step.
type AlignBackend struct {
	reference artifact.SubtitleTrack
	refDigest fingerprint.Fingerprint
	desc      Descriptor
}

// NewAlignBackend builds the alignment backend. A reference with no cues
// means "use the prior transcript artifact".
func NewAlignBackend(reference artifact.SubtitleTrack) *AlignBackend {
	b := &AlignBackend{reference: reference}
	if len(reference.Cues) > 0 {
		payload, err := artifact.Encode(artifact.NewSubtitle(reference))
		if err == nil {
			b.refDigest = fingerprint.FromBytes(payload)
		}
	}
	b.desc = NewDescriptor("subalign", "1", "anchors=text")
	return b
}

func (b *AlignBackend) Descriptor() Descriptor { return b.desc }

func (b *AlignBackend) Slot() Slot { return SlotSubAlign }

func (b *AlignBackend) AppliesTo(kind media.Kind) bool {
	return kind == media.KindSubtitle
}

// FingerprintKey folds the reference identity into the cache key: the same
// subtitle file aligned against two references is two computations.
func (b *AlignBackend) FingerprintKey(req Request) fingerprint.Fingerprint {
	if b.refDigest == "" {
		return req.Digest
	}
	return fingerprint.FromString(string(req.Digest) + ":" + string(b.refDigest))
}

func (b *AlignBackend) Apply(ctx context.Context, req Request) (artifact.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return artifact.Artifact{}, services.Wrap(services.ErrTransient, "subalign", "apply", "cancelled", err)
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		return artifact.Artifact{}, services.Wrap(services.ErrPermanent, "subalign", "apply", "read subtitle file", err)
	}
	track, err := srt.Parse(data)
	if err != nil {
		return artifact.Artifact{}, err
	}

	reference := b.reference
	if len(reference.Cues) == 0 {
		if req.Prior == nil || req.Prior.Type != artifact.TypeTranscript || req.Prior.Transcript == nil {
			return artifact.Artifact{}, services.Wrap(services.ErrConfiguration, "subalign", "apply", "no reference track or transcript available", nil)
		}
		reference = req.Prior.Transcript.ToSubtitleTrack()
	}

	aligned, _ := srt.Align(track, reference)
	return artifact.NewSubtitle(aligned), nil
}
