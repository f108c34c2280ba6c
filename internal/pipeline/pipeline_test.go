package pipeline

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"mediatools/internal/artifact"
	"mediatools/internal/backend"
	"mediatools/internal/cache"
	"mediatools/internal/fingerprint"
	"mediatools/internal/media"
	"mediatools/internal/services"
	"mediatools/internal/testsupport"
)

// scriptedBackend fails a fixed number of times before succeeding, or
// always fails when failures is negative.
type scriptedBackend struct {
	name     string
	slot     backend.Slot
	failures int
	marker   error
	calls    atomic.Int64
	block    time.Duration
}

func (s *scriptedBackend) Descriptor() backend.Descriptor {
	return backend.NewDescriptor(s.name, "1", "")
}
func (s *scriptedBackend) Slot() backend.Slot { return s.slot }
func (s *scriptedBackend) AppliesTo(kind media.Kind) bool { return true }
func (s *scriptedBackend) FingerprintKey(req backend.Request) fingerprint.Fingerprint {
	return req.Digest
}

func (s *scriptedBackend) Apply(ctx context.Context, req backend.Request) (artifact.Artifact, error) {
	call := s.calls.Add(1)
	if s.block > 0 {
		select {
		case <-ctx.Done():
			return artifact.Artifact{}, services.Wrap(services.ErrTransient, s.name, "apply", "timed out", ctx.Err())
		case <-time.After(s.block):
		}
	}
	if s.failures < 0 || call <= int64(s.failures) {
		return artifact.Artifact{}, services.Wrap(s.marker, s.name, "apply", "scripted failure", nil)
	}
	return artifact.NewHash(artifact.HashValue{SHA256: string(req.Digest)}), nil
}

func newTestPipeline(t *testing.T, reg *backend.Registry, budget int) *Pipeline {
	t.Helper()
	return New(Options{
		Registry:     reg,
		Cache:        cache.New(cache.Options{MaxEntries: 64}),
		RetryBudget:  budget,
		RetryBackoff: time.Millisecond,
		Logger:       nil,
	})
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	testsupport.WritePNG(t, path, testsupport.GradientImage(16, 16))
	return path
}

func TestRunCompletesChainInOrder(t *testing.T) {
	reg := backend.NewRegistry()
	dedup := &scriptedBackend{name: "dedup", slot: backend.SlotDedup}
	removebg := &scriptedBackend{name: "removebg", slot: backend.SlotRemoveBG}
	reg.Register(removebg)
	reg.Register(dedup)

	p := newTestPipeline(t, reg, 2)
	outcome := p.Run(context.Background(), writeImage(t, "a.png"))

	if outcome.Status != StatusCompleted {
		t.Fatalf("status = %s, failure = %v", outcome.Status, outcome.Failure)
	}
	if outcome.Kind != media.KindImage {
		t.Errorf("kind = %s", outcome.Kind)
	}
	if len(outcome.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(outcome.Steps))
	}
	if outcome.Steps[0].Slot != backend.SlotDedup || outcome.Steps[1].Slot != backend.SlotRemoveBG {
		t.Errorf("step order = %s, %s", outcome.Steps[0].Slot, outcome.Steps[1].Slot)
	}
	for _, step := range outcome.Steps {
		if step.Attempts != 1 || step.FromCache {
			t.Errorf("step %s: attempts=%d fromCache=%v", step.Slot, step.Attempts, step.FromCache)
		}
	}
}

func TestPermanentFailureStopsChainKeepingPriorArtifacts(t *testing.T) {
	reg := backend.NewRegistry()
	ok := &scriptedBackend{name: "dedup", slot: backend.SlotDedup}
	failing := &scriptedBackend{name: "transcribe", slot: backend.SlotTranscribe, failures: -1, marker: services.ErrPermanent}
	never := &scriptedBackend{name: "removebg", slot: backend.SlotRemoveBG}
	reg.Register(ok)
	reg.Register(failing)
	reg.Register(never)

	p := newTestPipeline(t, reg, 2)
	outcome := p.Run(context.Background(), writeImage(t, "a.png"))

	if outcome.Status != StatusFailed {
		t.Fatalf("status = %s", outcome.Status)
	}
	if len(outcome.Steps) != 1 || outcome.Steps[0].Slot != backend.SlotDedup {
		t.Fatalf("retained steps = %+v, want the dedup artifact only", outcome.Steps)
	}
	if outcome.Failure == nil || outcome.Failure.Kind != FailurePermanent {
		t.Fatalf("failure = %+v", outcome.Failure)
	}
	if outcome.Failure.Step != string(backend.SlotTranscribe) {
		t.Errorf("failure step = %s", outcome.Failure.Step)
	}
	if failing.calls.Load() != 1 {
		t.Errorf("permanent failure retried: %d calls", failing.calls.Load())
	}
	if never.calls.Load() != 0 {
		t.Errorf("step after failure executed %d times", never.calls.Load())
	}
}

func TestTransientFailureRetriedWithinBudget(t *testing.T) {
	reg := backend.NewRegistry()
	flaky := &scriptedBackend{name: "dedup", slot: backend.SlotDedup, failures: 2, marker: services.ErrTransient}
	reg.Register(flaky)

	p := newTestPipeline(t, reg, 2)
	outcome := p.Run(context.Background(), writeImage(t, "a.png"))

	if outcome.Status != StatusCompleted {
		t.Fatalf("status = %s, failure = %v", outcome.Status, outcome.Failure)
	}
	if outcome.Steps[0].Attempts != 3 {
		t.Errorf("attempts = %d, want 3", outcome.Steps[0].Attempts)
	}
}

func TestRetryBudgetExhaustionIsPermanent(t *testing.T) {
	reg := backend.NewRegistry()
	flaky := &scriptedBackend{name: "dedup", slot: backend.SlotDedup, failures: -1, marker: services.ErrTransient}
	reg.Register(flaky)

	budget := 2
	p := newTestPipeline(t, reg, budget)
	outcome := p.Run(context.Background(), writeImage(t, "a.png"))

	if outcome.Status != StatusFailed {
		t.Fatalf("status = %s", outcome.Status)
	}
	if outcome.Failure.Kind != FailureRetryExhausted {
		t.Errorf("failure kind = %s", outcome.Failure.Kind)
	}
	if got := flaky.calls.Load(); got != int64(budget)+1 {
		t.Errorf("attempts = %d, want %d", got, budget+1)
	}
}

func TestStepTimeoutIsTransient(t *testing.T) {
	reg := backend.NewRegistry()
	slow := &scriptedBackend{name: "dedup", slot: backend.SlotDedup, block: 200 * time.Millisecond}
	reg.Register(slow)

	p := New(Options{
		Registry:     reg,
		Cache:        cache.New(cache.Options{MaxEntries: 64}),
		RetryBudget:  1,
		RetryBackoff: time.Millisecond,
		StepTimeout:  10 * time.Millisecond,
	})
	outcome := p.Run(context.Background(), writeImage(t, "a.png"))

	if outcome.Status != StatusFailed {
		t.Fatalf("status = %s", outcome.Status)
	}
	if outcome.Failure.Kind != FailureRetryExhausted {
		t.Errorf("failure kind = %s, want timeout treated as transient", outcome.Failure.Kind)
	}
	if got := slow.calls.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestSecondRunHitsCache(t *testing.T) {
	reg := backend.NewRegistry()
	counted := &scriptedBackend{name: "dedup", slot: backend.SlotDedup}
	reg.Register(counted)

	p := newTestPipeline(t, reg, 0)
	path := writeImage(t, "a.png")

	first := p.Run(context.Background(), path)
	second := p.Run(context.Background(), path)

	if first.Status != StatusCompleted || second.Status != StatusCompleted {
		t.Fatalf("statuses = %s, %s", first.Status, second.Status)
	}
	if counted.calls.Load() != 1 {
		t.Errorf("backend ran %d times, want 1", counted.calls.Load())
	}
	if !second.Steps[0].FromCache {
		t.Error("second run did not report a cache hit")
	}
	if second.Steps[0].Attempts != 0 {
		t.Errorf("cache hit reported %d attempts", second.Steps[0].Attempts)
	}
}

func TestUnclassifiableFileFails(t *testing.T) {
	p := newTestPipeline(t, backend.NewRegistry(), 0)
	outcome := p.Run(context.Background(), filepath.Join(t.TempDir(), "missing.png"))

	if outcome.Status != StatusFailed {
		t.Fatalf("status = %s", outcome.Status)
	}
	if outcome.Failure == nil || outcome.Failure.Kind != FailureClassification {
		t.Fatalf("failure = %+v", outcome.Failure)
	}
}

func TestUnknownKindIsUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	// Arbitrary bytes no sniffer recognizes.
	testsupport.WriteSRT(t, path, "\x00\x01\x02\x03 nothing recognizable")

	reg := backend.NewRegistry()
	reg.Register(&scriptedBackend{name: "dedup", slot: backend.SlotDedup})

	p := newTestPipeline(t, reg, 0)
	outcome := p.Run(context.Background(), path)

	if outcome.Status != StatusUnsupported {
		t.Fatalf("status = %s, want unsupported", outcome.Status)
	}
	if len(outcome.Steps) != 0 || outcome.Failure != nil {
		t.Errorf("unsupported outcome carries steps or failure: %+v", outcome)
	}
}

func TestEmptyChainIsUnsupported(t *testing.T) {
	// Registry with no backend for subtitles.
	reg := backend.NewRegistry()

	dir := t.TempDir()
	path := filepath.Join(dir, "track.srt")
	testsupport.WriteSRT(t, path, "")

	p := newTestPipeline(t, reg, 0)
	outcome := p.Run(context.Background(), path)
	if outcome.Status != StatusUnsupported {
		t.Fatalf("status = %s", outcome.Status)
	}
}
