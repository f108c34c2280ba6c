package pipeline

import (
	"context"
	"log/slog"
	"time"

	"mediatools/internal/artifact"
	"mediatools/internal/backend"
	"mediatools/internal/cache"
	"mediatools/internal/fingerprint"
	"mediatools/internal/logging"
	"mediatools/internal/media"
	"mediatools/internal/services"
)

// Options configures a Pipeline.
type Options struct {
	Registry *backend.Registry
	Cache    *cache.ResultCache
	// RetryBudget is the number of retries after the first attempt for
	// transient failures.
	RetryBudget int
	// RetryBackoff is the delay before the first retry; it doubles per
	// attempt.
	RetryBackoff time.Duration
	// StepTimeout bounds one backend invocation. Expiry surfaces as a
	// transient failure and counts against the retry budget. Zero
	// disables the bound.
	StepTimeout time.Duration
	Logger      *slog.Logger
}

// Pipeline runs the backend chain for individual files.
type Pipeline struct {
	registry     *backend.Registry
	cache        *cache.ResultCache
	retryBudget  int
	retryBackoff time.Duration
	stepTimeout  time.Duration
	logger       *slog.Logger
}

// New builds a pipeline from opts.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	budget := opts.RetryBudget
	if budget < 0 {
		budget = 0
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Pipeline{
		registry:     opts.Registry,
		cache:        opts.Cache,
		retryBudget:  budget,
		retryBackoff: backoff,
		stepTimeout:  opts.StepTimeout,
		logger:       logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run classifies path, resolves its backend chain, and executes the chain
// step by step. The returned outcome always carries a definitive status;
// per-file errors are captured in it rather than returned.
func (p *Pipeline) Run(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path, Kind: media.KindUnknown}

	kind, err := media.Classify(path)
	if err != nil {
		p.logger.Warn("classification failed",
			logging.String(logging.FieldFile, path),
			logging.Error(err))
		outcome.Status = StatusFailed
		outcome.Failure = &FailureRecord{
			Step:    "classify",
			Kind:    FailureClassification,
			Message: services.Detail(err),
		}
		return outcome
	}
	outcome.Kind = kind

	chain := p.registry.Resolve(kind)
	if len(chain) == 0 {
		outcome.Status = StatusUnsupported
		return outcome
	}

	digest, err := fingerprint.FromFile(path)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Failure = &FailureRecord{
			Step:    "fingerprint",
			Kind:    FailureClassification,
			Message: services.Detail(err),
		}
		return outcome
	}

	req := backend.Request{Path: path, Kind: kind, Digest: digest}
	for _, b := range chain {
		step, err := p.runStep(ctx, b, req)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Failure = failureFor(b, err)
			p.logger.Warn("step failed",
				logging.String(logging.FieldFile, path),
				logging.String(logging.FieldSlot, string(b.Slot())),
				logging.String(logging.FieldBackend, b.Descriptor().ID()),
				logging.Error(err))
			return outcome
		}
		outcome.Steps = append(outcome.Steps, step)
		req.Prior = &outcome.Steps[len(outcome.Steps)-1].Artifact
	}

	outcome.Status = StatusCompleted
	return outcome
}

// runStep resolves one step through the cache, computing on miss with the
// retry policy applied inside the computation so concurrent callers share
// the final result.
func (p *Pipeline) runStep(ctx context.Context, b backend.Backend, req backend.Request) (StepResult, error) {
	key := cache.NewKey(b.FingerprintKey(req), b.Descriptor())

	attempts := 0
	art, fromCache, err := p.cache.GetOrCompute(ctx, key, func(ctx context.Context) (artifact.Artifact, error) {
		return p.invoke(ctx, b, req, &attempts)
	})
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{
		Slot:      b.Slot(),
		Backend:   b.Descriptor().ID(),
		Artifact:  art,
		FromCache: fromCache,
		Attempts:  attempts,
	}, nil
}

// invoke applies the backend with per-attempt timeouts, retrying transient
// failures with doubling backoff until the budget runs out.
func (p *Pipeline) invoke(ctx context.Context, b backend.Backend, req backend.Request, attempts *int) (artifact.Artifact, error) {
	backoff := p.retryBackoff
	var lastErr error

	for attempt := 0; attempt <= p.retryBudget; attempt++ {
		*attempts = attempt + 1

		stepCtx := ctx
		cancel := context.CancelFunc(func() {})
		if p.stepTimeout > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, p.stepTimeout)
		}
		art, err := b.Apply(stepCtx, req)
		cancel()

		if err == nil {
			return art, nil
		}
		lastErr = err

		// The run itself being cancelled ends retrying immediately; a
		// per-step timeout does not, it is an ordinary transient failure.
		if ctx.Err() != nil {
			return artifact.Artifact{}, err
		}
		if !services.IsTransient(err) {
			return artifact.Artifact{}, err
		}
		if attempt == p.retryBudget {
			break
		}

		p.logger.Debug("retrying step",
			logging.String(logging.FieldFile, req.Path),
			logging.String(logging.FieldSlot, string(b.Slot())),
			logging.Int("attempt", attempt+1),
			logging.Duration("backoff", backoff),
			logging.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return artifact.Artifact{}, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return artifact.Artifact{}, lastErr
}

func failureFor(b backend.Backend, err error) *FailureRecord {
	kind := FailurePermanent
	if services.IsTransient(err) {
		kind = FailureRetryExhausted
	}
	return &FailureRecord{
		Step:    string(b.Slot()),
		Backend: b.Descriptor().ID(),
		Kind:    kind,
		Message: services.Detail(err),
	}
}
