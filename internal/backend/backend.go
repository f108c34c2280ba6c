package backend

import (
	"context"

	"mediatools/internal/artifact"
	"mediatools/internal/fingerprint"
	"mediatools/internal/media"
)

// Slot names a pipeline position a backend may fill. Each resolved chain
// contains at most one backend per slot.
type Slot string

const (
	SlotDedup      Slot = "dedup"
	SlotTranscribe Slot = "transcribe"
	SlotRemoveBG   Slot = "removebg"
	SlotSubAlign   Slot = "subalign"
)

// slotOrder fixes the execution order of filled slots within a pipeline.
var slotOrder = []Slot{SlotDedup, SlotTranscribe, SlotRemoveBG, SlotSubAlign}

// Request carries one backend invocation's input. Digest is the file's
// content fingerprint, computed once per file before any backend runs.
// Prior is the artifact produced by the immediately preceding step, nil
// for the first step; backends never receive artifacts from earlier steps.
type Request struct {
	Path   string
	Kind   media.Kind
	Digest fingerprint.Fingerprint
	Prior  *artifact.Artifact
}

// Backend is the uniform capability contract. Apply either returns an
// artifact or an error wrapped with the services taxonomy; it must honor
// ctx cancellation and must never mutate its input file or prior artifact.
type Backend interface {
	// Descriptor identifies the backend for cache keying and reports.
	Descriptor() Descriptor

	// Slot names the pipeline position this backend fills.
	Slot() Slot

	// AppliesTo reports whether the backend can process the given kind.
	AppliesTo(kind media.Kind) bool

	// FingerprintKey derives the cache key input for this request. Most
	// backends return the content digest unchanged; backends whose output
	// depends on more than the file bytes fold that state in.
	FingerprintKey(req Request) fingerprint.Fingerprint

	// Apply processes the request and returns a new artifact.
	Apply(ctx context.Context, req Request) (artifact.Artifact, error)
}
