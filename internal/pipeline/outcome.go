package pipeline

import (
	"fmt"

	"mediatools/internal/artifact"
	"mediatools/internal/backend"
	"mediatools/internal/media"
)

// Status is a file's definitive outcome.
type Status string

const (
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusUnsupported Status = "unsupported"
)

// FailureKind classifies why a file failed.
type FailureKind string

const (
	// FailureClassification covers unreadable or unclassifiable content.
	FailureClassification FailureKind = "classification"
	// FailurePermanent covers backend errors that retrying cannot fix.
	FailurePermanent FailureKind = "permanent"
	// FailureRetryExhausted covers transient errors that outlasted the
	// retry budget; from the caller's view the step failed permanently.
	FailureRetryExhausted FailureKind = "retry_exhausted"
)

// StepResult records one executed backend step.
type StepResult struct {
	Slot      backend.Slot      `json:"slot"`
	Backend   string            `json:"backend"`
	Artifact  artifact.Artifact `json:"artifact"`
	FromCache bool              `json:"from_cache"`
	// Attempts counts backend invocations for this step; zero when the
	// artifact came from the cache.
	Attempts int `json:"attempts"`
}

// FailureRecord describes the step that ended a file's pipeline.
type FailureRecord struct {
	Step    string      `json:"step"`
	Backend string      `json:"backend,omitempty"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (f FailureRecord) String() string {
	if f.Backend != "" {
		return fmt.Sprintf("%s (%s, %s): %s", f.Step, f.Backend, f.Kind, f.Message)
	}
	return fmt.Sprintf("%s (%s): %s", f.Step, f.Kind, f.Message)
}

// FileOutcome is the per-file result handed to the batch orchestrator.
// Steps holds every artifact produced before a failure, so a partially
// processed file still reports its completed work.
type FileOutcome struct {
	Path    string         `json:"path"`
	Kind    media.Kind     `json:"kind"`
	Status  Status         `json:"status"`
	Steps   []StepResult   `json:"steps,omitempty"`
	Failure *FailureRecord `json:"failure,omitempty"`
}

// ArtifactFor returns the artifact produced by the named slot, if any.
func (o FileOutcome) ArtifactFor(slot backend.Slot) (artifact.Artifact, bool) {
	for _, step := range o.Steps {
		if step.Slot == slot {
			return step.Artifact, true
		}
	}
	return artifact.Artifact{}, false
}
