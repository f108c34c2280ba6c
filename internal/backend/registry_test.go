package backend

import (
	"context"
	"testing"

	"mediatools/internal/artifact"
	"mediatools/internal/fingerprint"
	"mediatools/internal/media"
)

type stubBackend struct {
	name  string
	slot  Slot
	kinds map[media.Kind]bool
}

func (s *stubBackend) Descriptor() Descriptor { return NewDescriptor(s.name, "1", "") }
func (s *stubBackend) Slot() Slot             { return s.slot }
func (s *stubBackend) AppliesTo(kind media.Kind) bool {
	return s.kinds[kind]
}
func (s *stubBackend) FingerprintKey(req Request) fingerprint.Fingerprint {
	return req.Digest
}
func (s *stubBackend) Apply(ctx context.Context, req Request) (artifact.Artifact, error) {
	return artifact.NewHash(artifact.HashValue{SHA256: string(req.Digest)}), nil
}

func TestResolveSlotOrderAndPriority(t *testing.T) {
	reg := NewRegistry()
	// Registered out of slot order; resolution must follow slot order.
	reg.Register(&stubBackend{name: "transcribe-a", slot: SlotTranscribe, kinds: map[media.Kind]bool{media.KindAudio: true}})
	reg.Register(&stubBackend{name: "hash-a", slot: SlotDedup, kinds: map[media.Kind]bool{media.KindAudio: true, media.KindImage: true}})
	// Second dedup candidate must lose to hash-a for audio.
	reg.Register(&stubBackend{name: "hash-b", slot: SlotDedup, kinds: map[media.Kind]bool{media.KindAudio: true}})

	chain := reg.Resolve(media.KindAudio)
	if len(chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(chain))
	}
	if got := chain[0].Descriptor().Name; got != "hash-a" {
		t.Errorf("slot 0 = %s, want hash-a", got)
	}
	if got := chain[1].Descriptor().Name; got != "transcribe-a" {
		t.Errorf("slot 1 = %s, want transcribe-a", got)
	}
}

func TestResolveSkipsInapplicableSlots(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubBackend{name: "hash", slot: SlotDedup, kinds: map[media.Kind]bool{media.KindImage: true}})
	reg.Register(&stubBackend{name: "transcribe", slot: SlotTranscribe, kinds: map[media.Kind]bool{media.KindAudio: true}})

	chain := reg.Resolve(media.KindImage)
	if len(chain) != 1 || chain[0].Descriptor().Name != "hash" {
		t.Fatalf("unexpected chain for image: %d backends", len(chain))
	}
}

func TestResolveUnknownIsEmpty(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubBackend{name: "hash", slot: SlotDedup, kinds: map[media.Kind]bool{media.KindImage: true}})

	if chain := reg.Resolve(media.KindUnknown); len(chain) != 0 {
		t.Fatalf("unknown kind resolved to %d backends, want 0", len(chain))
	}
}

func TestDescriptorID(t *testing.T) {
	a := NewDescriptor("hash", "1", "hash_size=8")
	b := NewDescriptor("hash", "1", "hash_size=16")
	if a.ID() == b.ID() {
		t.Error("config change did not change descriptor ID")
	}
	c := NewDescriptor("hash", "2", "hash_size=8")
	if a.ID() == c.ID() {
		t.Error("version change did not change descriptor ID")
	}
	if again := NewDescriptor("hash", "1", "hash_size=8"); a.ID() != again.ID() {
		t.Error("descriptor ID is not deterministic")
	}
}
