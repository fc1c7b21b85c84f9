package models

import (
	"fmt"
	"time"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// JobStatus is the lifecycle state of an extraction job.
//
// Transitions are monotonic: queued → in_progress → {completed, failed}.
// A job never leaves a terminal state.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

func (s JobStatus) valid() bool {
	switch s {
	case JobQueued, JobInProgress, JobCompleted, JobFailed:
		return true
	}
	return false
}

// ExtractionJob is one asynchronous extraction attempt for a (project, artifact type) pair.
//
// Jobs are retained indefinitely as extraction history.
type ExtractionJob struct {
	Record
	ProjectID      string
	Artifact       ArtifactType
	Status         JobStatus
	Progress       int // percentage [0,100], best-effort
	ExtractedItems int
	TotalItems     int // best-effort estimate, 0 when unknown
	ErrorMessage   string
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// NewExtractionJob creates a queued job for the given pair, started now.
func NewExtractionJob(projectID string, artifact ArtifactType) *ExtractionJob {
	now := time.Now().UTC()
	return &ExtractionJob{
		Record:    NewRecord(),
		ProjectID: projectID,
		Artifact:  artifact,
		Status:    JobQueued,
		StartedAt: now,
	}
}

// Begin moves a queued job to in_progress.
func (j *ExtractionJob) Begin() error {
	if j.Status != JobQueued {
		return fmt.Errorf("%w: cannot begin job in status %q", shared.ErrInvalidInput, j.Status)
	}
	j.Status = JobInProgress
	j.Progress = 5
	return nil
}

// Complete moves an in_progress job to the completed terminal state.
func (j *ExtractionJob) Complete(extracted, total int) error {
	if j.Status.Terminal() {
		return fmt.Errorf("%w: %s", shared.ErrJobTerminal, j.ID())
	}
	now := time.Now().UTC()
	j.Status = JobCompleted
	j.Progress = 100
	j.ExtractedItems = extracted
	j.TotalItems = total
	j.CompletedAt = &now
	return nil
}

// Fail moves a non-terminal job to the failed terminal state with a message.
func (j *ExtractionJob) Fail(message string) error {
	if j.Status.Terminal() {
		return fmt.Errorf("%w: %s", shared.ErrJobTerminal, j.ID())
	}
	now := time.Now().UTC()
	j.Status = JobFailed
	j.ErrorMessage = message
	j.CompletedAt = &now
	return nil
}

// Active reports whether the job still holds the pair's active slot.
func (j *ExtractionJob) Active() bool {
	return !j.Status.Terminal()
}

// Validate checks the job's data against the lifecycle invariants.
func (j *ExtractionJob) Validate() error {
	if j.ProjectID == "" {
		return fmt.Errorf("%w: job project id is required", shared.ErrInvalidInput)
	}
	if _, err := ParseArtifactType(string(j.Artifact)); err != nil {
		return err
	}
	if !j.Status.valid() {
		return fmt.Errorf("%w: unknown job status %q", shared.ErrInvalidInput, j.Status)
	}
	if j.Progress < 0 || j.Progress > 100 {
		return fmt.Errorf("%w: progress %d out of range", shared.ErrInvalidInput, j.Progress)
	}
	if j.Status.Terminal() && j.CompletedAt == nil {
		return fmt.Errorf("%w: terminal job missing completion timestamp", shared.ErrInvalidInput)
	}
	if j.Status == JobFailed && j.ErrorMessage == "" {
		return fmt.Errorf("%w: failed job missing error message", shared.ErrInvalidInput)
	}
	if j.Status != JobFailed && j.ErrorMessage != "" {
		return fmt.Errorf("%w: non-failed job carries error message", shared.ErrInvalidInput)
	}
	return nil
}
