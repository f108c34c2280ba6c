package batch

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mediatools/internal/logging"
	"mediatools/internal/pipeline"
)

// Options configures an Orchestrator.
type Options struct {
	Pipeline *pipeline.Pipeline
	// Workers bounds concurrent files; zero or negative means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Orchestrator fans files out over a bounded worker pool.
type Orchestrator struct {
	pipeline *pipeline.Pipeline
	workers  int
	logger   *slog.Logger
}

// New builds an orchestrator from opts.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Orchestrator{
		pipeline: opts.Pipeline,
		workers:  workers,
		logger:   logging.NewComponentLogger(logger, "batch"),
	}
}

// Run processes every file and returns the aggregate report. The report
// holds one outcome per input, in input order regardless of completion
// order. Run itself never fails; per-file errors live in the outcomes.
func (o *Orchestrator) Run(ctx context.Context, files []string) Report {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Outcomes:  make([]pipeline.FileOutcome, len(files)),
	}

	o.logger.Info("batch started",
		logging.String(logging.FieldRunID, report.RunID),
		logging.Int("files", len(files)),
		logging.Int("workers", o.workers))

	// Plain group, not WithContext: a failed file must never cancel the
	// rest of the batch.
	g := new(errgroup.Group)
	g.SetLimit(o.workers)
	for i, path := range files {
		g.Go(func() error {
			report.Outcomes[i] = o.pipeline.Run(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = time.Now().UTC()

	completed, failed, unsupported := report.Counts()
	o.logger.Info("batch finished",
		logging.String(logging.FieldRunID, report.RunID),
		logging.Int("completed", completed),
		logging.Int("failed", failed),
		logging.Int("unsupported", unsupported),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))

	return report
}
