package backend

import (
	"context"
	"os"

	"mediatools/internal/artifact"
	"mediatools/internal/fingerprint"
	"mediatools/internal/media"
	"mediatools/internal/services"
	"mediatools/internal/services/whisper"
)

// TranscribeBackend fills the transcribe slot for audio and video files.
// Tool output lands in a per-invocation temp directory that is removed
// once the transcript is parsed.
type TranscribeBackend struct {
	svc  *whisper.Service
	desc Descriptor
}

// NewTranscribeBackend builds the transcription backend around svc.
func NewTranscribeBackend(svc *whisper.Service) *TranscribeBackend {
	return &TranscribeBackend{
		svc:  svc,
		desc: NewDescriptor("transcribe", whisper.Version, svc.Describe()),
	}
}

func (b *TranscribeBackend) Descriptor() Descriptor { return b.desc }

func (b *TranscribeBackend) Slot() Slot { return SlotTranscribe }

func (b *TranscribeBackend) AppliesTo(kind media.Kind) bool {
	return kind == media.KindAudio || kind == media.KindVideo
}

func (b *TranscribeBackend) FingerprintKey(req Request) fingerprint.Fingerprint {
	return req.Digest
}

func (b *TranscribeBackend) Apply(ctx context.Context, req Request) (artifact.Artifact, error) {
	workDir, err := os.MkdirTemp("", "mediatools-transcribe-")
	if err != nil {
		return artifact.Artifact{}, services.Wrap(services.ErrTransient, "transcribe", "apply", "create work dir", err)
	}
	defer os.RemoveAll(workDir)

	transcript, err := b.svc.Transcribe(ctx, req.Path, workDir)
	if err != nil {
		return artifact.Artifact{}, err
	}
	return artifact.NewTranscript(transcript), nil
}
