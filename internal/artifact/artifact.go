package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type discriminates the artifact union.
type Type string

const (
	TypeHash       Type = "hash"
	TypeTranscript Type = "transcript"
	TypeImage      Type = "image"
	TypeSubtitle   Type = "subtitle"
)

// Artifact is the tagged union of backend outputs. Exactly one payload
// field matching Type is set. Artifacts are write-once: backends produce
// new values and never mutate their inputs.
type Artifact struct {
	Type       Type           `json:"type"`
	Hash       *HashValue     `json:"hash,omitempty"`
	Transcript *Transcript    `json:"transcript,omitempty"`
	Image      *ImageOutput   `json:"image,omitempty"`
	Subtitle   *SubtitleTrack `json:"subtitle,omitempty"`
}

// HashValue carries exact and perceptual content identities.
type HashValue struct {
	SHA256 string `json:"sha256"`
	// Perceptual is the serialized perceptual hash; empty for non-image
	// content.
	Perceptual string `json:"perceptual,omitempty"`
	HashSize   int    `json:"hash_size,omitempty"`
}

// ImageOutput references a derived image written next to its source.
type ImageOutput struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// NewHash wraps a HashValue in an artifact.
func NewHash(h HashValue) Artifact {
	return Artifact{Type: TypeHash, Hash: &h}
}

// NewTranscript wraps a Transcript in an artifact.
func NewTranscript(tr Transcript) Artifact {
	return Artifact{Type: TypeTranscript, Transcript: &tr}
}

// NewImage wraps an ImageOutput in an artifact.
func NewImage(img ImageOutput) Artifact {
	return Artifact{Type: TypeImage, Image: &img}
}

// NewSubtitle wraps a SubtitleTrack in an artifact.
func NewSubtitle(track SubtitleTrack) Artifact {
	return Artifact{Type: TypeSubtitle, Subtitle: &track}
}

// Validate checks that exactly the payload named by Type is present.
func (a Artifact) Validate() error {
	var want, extra int
	for _, present := range []struct {
		typ Type
		set bool
	}{
		{TypeHash, a.Hash != nil},
		{TypeTranscript, a.Transcript != nil},
		{TypeImage, a.Image != nil},
		{TypeSubtitle, a.Subtitle != nil},
	} {
		if !present.set {
			continue
		}
		if present.typ == a.Type {
			want++
		} else {
			extra++
		}
	}
	if want != 1 || extra != 0 {
		return fmt.Errorf("artifact payload does not match type %q", a.Type)
	}
	return nil
}

// Summary returns a short human-readable description for reports.
func (a Artifact) Summary() string {
	switch a.Type {
	case TypeHash:
		if a.Hash == nil {
			return "hash"
		}
		short := a.Hash.SHA256
		if len(short) > 12 {
			short = short[:12]
		}
		return "sha256 " + short
	case TypeTranscript:
		if a.Transcript == nil {
			return "transcript"
		}
		return fmt.Sprintf("transcript (%d segments, %s)", len(a.Transcript.Segments), a.Transcript.Language)
	case TypeImage:
		if a.Image == nil {
			return "image"
		}
		return "image " + a.Image.Path
	case TypeSubtitle:
		if a.Subtitle == nil {
			return "subtitle"
		}
		return fmt.Sprintf("subtitle (%d cues)", len(a.Subtitle.Cues))
	}
	return string(a.Type)
}

// Encode serializes the artifact for cache persistence.
func Encode(a Artifact) ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(a)
}

// Decode reverses Encode and re-validates the envelope.
func Decode(data []byte) (Artifact, error) {
	if len(data) == 0 {
		return Artifact{}, errors.New("empty artifact payload")
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, fmt.Errorf("decode artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Artifact{}, err
	}
	return a, nil
}
