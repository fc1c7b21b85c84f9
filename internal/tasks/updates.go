package tasks

import (
	"fmt"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase    Phase               // Operation phase
	Artifact models.ArtifactType // Artifact type being extracted
	JobID    string              // Job this update belongs to
	Step     int                 // Current step number within phase
	Total    int                 // Total steps in this phase
	Message  string              // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchStarted Phase = iota
	FetchFetched
	FetchCompleted
	FetchFailed
	BatchQueued
	BatchSettled
)

func (p Phase) String() string {
	switch p {
	case FetchStarted:
		return "fetch_started"
	case FetchFetched:
		return "fetch_fetched"
	case FetchCompleted:
		return "fetch_completed"
	case FetchFailed:
		return "fetch_failed"
	case BatchQueued:
		return "batch_queued"
	case BatchSettled:
		return "batch_settled"
	default:
		return ""
	}
}

func fetchStartedUpdate(job *models.ExtractionJob) ProgressUpdate {
	return ProgressUpdate{
		Phase:    FetchStarted,
		Artifact: job.Artifact,
		JobID:    job.ID(),
		Step:     1,
		Total:    1,
		Message:  fmt.Sprintf("Extracting %s...", job.Artifact),
	}
}

func fetchFetchedUpdate(job *models.ExtractionJob, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:    FetchFetched,
		Artifact: job.Artifact,
		JobID:    job.ID(),
		Step:     1,
		Total:    1,
		Message:  fmt.Sprintf("Fetched %d %s", count, job.Artifact),
	}
}

func fetchCompletedUpdate(job *models.ExtractionJob) ProgressUpdate {
	return ProgressUpdate{
		Phase:    FetchCompleted,
		Artifact: job.Artifact,
		JobID:    job.ID(),
		Step:     1,
		Total:    1,
		Message:  fmt.Sprintf("✓ %s (%d items)", job.Artifact, job.ExtractedItems),
	}
}

func fetchFailedUpdate(job *models.ExtractionJob, message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    FetchFailed,
		Artifact: job.Artifact,
		JobID:    job.ID(),
		Step:     1,
		Total:    1,
		Message:  fmt.Sprintf("✗ %s: %s", job.Artifact, message),
	}
}

func batchQueuedUpdate(artifact models.ArtifactType, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:    BatchQueued,
		Artifact: artifact,
		Step:     step,
		Total:    total,
		Message:  fmt.Sprintf("[%d/%d] Queued %s", step, total, artifact),
	}
}

func batchSettledUpdate(job *models.ExtractionJob, step, total int) ProgressUpdate {
	update := ProgressUpdate{
		Phase:    BatchSettled,
		Artifact: job.Artifact,
		JobID:    job.ID(),
		Step:     step,
		Total:    total,
	}
	if job.Status == models.JobCompleted {
		update.Message = fmt.Sprintf("[%d/%d] ✓ %s (%d items)", step, total, job.Artifact, job.ExtractedItems)
	} else {
		update.Message = fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, job.Artifact, job.ErrorMessage)
	}
	return update
}
