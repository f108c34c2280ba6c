package batch

import (
	"time"

	"mediatools/internal/pipeline"
)

// Report aggregates every file's outcome for one run. Outcomes parallels
// the input slice: entry i is the outcome for input file i.
type Report struct {
	RunID      string                 `json:"run_id"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Outcomes   []pipeline.FileOutcome `json:"outcomes"`
}

// Counts tallies outcomes by status.
func (r Report) Counts() (completed, failed, unsupported int) {
	for _, outcome := range r.Outcomes {
		switch outcome.Status {
		case pipeline.StatusCompleted:
			completed++
		case pipeline.StatusFailed:
			failed++
		case pipeline.StatusUnsupported:
			unsupported++
		}
	}
	return completed, failed, unsupported
}

// PartialFailure reports whether the run finished with at least one failed
// file alongside other work.
func (r Report) PartialFailure() bool {
	_, failed, _ := r.Counts()
	return failed > 0 && failed < len(r.Outcomes)
}

// Failed returns the outcomes that ended in failure, in input order.
func (r Report) Failed() []pipeline.FileOutcome {
	var failed []pipeline.FileOutcome
	for _, outcome := range r.Outcomes {
		if outcome.Status == pipeline.StatusFailed {
			failed = append(failed, outcome)
		}
	}
	return failed
}
