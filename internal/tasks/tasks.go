// package tasks implements artifact extraction jobs for Azure DevOps projects.
//
// The core abstraction is ExtractionEngine, which orchestrates asynchronous extraction jobs, batch fan-out, and summary aggregation.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/repositories"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/services"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// Engine defines operations for running artifact extractions against a project.
type Engine interface {
	// Start creates a queued job for the pair and processes it asynchronously.
	// Returns shared.ErrJobConflict while another job holds the pair's slot.
	Start(ctx context.Context, projectID string, artifact models.ArtifactType, progress chan<- ProgressUpdate) (*models.ExtractionJob, error)

	// Run creates a job for the pair and processes it synchronously, returning the settled job.
	Run(ctx context.Context, projectID string, artifact models.ArtifactType, progress chan<- ProgressUpdate) (*models.ExtractionJob, error)

	// Status retrieves the current state of a job by ID.
	Status(jobID string) (*models.ExtractionJob, error)

	// ListForProject returns a project's extraction history, newest first.
	ListForProject(projectID string) ([]*models.ExtractionJob, error)

	// ExtractBatch runs extractions for multiple artifact types concurrently.
	ExtractBatch(ctx context.Context, progress chan<- ProgressUpdate, projectID string, artifacts []models.ArtifactType, opts BatchOpts) (*BatchResult, error)
}

// ExtractionEngine implements Engine over a Source and the persistence layer.
type ExtractionEngine struct {
	source     services.Source
	projects   *repositories.ProjectRepository
	jobs       *repositories.JobRepository
	aggregator *Aggregator
	config     *shared.Config
	logger     *log.Logger
}

// NewExtractionEngine creates an engine with the provided source and repositories.
func NewExtractionEngine(source services.Source, projects *repositories.ProjectRepository, jobs *repositories.JobRepository, config *shared.Config, logger *log.Logger) *ExtractionEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &ExtractionEngine{
		source:     source,
		projects:   projects,
		jobs:       jobs,
		aggregator: NewAggregator(projects),
		config:     config,
		logger:     logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ExtractionEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// enqueue verifies the project and claims the pair's active slot.
func (e *ExtractionEngine) enqueue(projectID string, artifact models.ArtifactType) (*models.Project, *models.ExtractionJob, error) {
	if e.source == nil {
		return nil, nil, fmt.Errorf("%w: source service not initialized", shared.ErrConnectionFailed)
	}

	project, err := e.projects.Get(projectID)
	if err != nil {
		return nil, nil, err
	}

	job := models.NewExtractionJob(project.ID(), artifact)
	if err := e.jobs.Create(job); err != nil {
		return nil, nil, err
	}

	return project, job, nil
}

// Start creates a queued job and processes it on a background goroutine.
//
// The job detaches from the caller's cancellation so an HTTP client dropping
// the request does not abort a running extraction; the per-fetch timeout
// still bounds the work.
func (e *ExtractionEngine) Start(ctx context.Context, projectID string, artifact models.ArtifactType, progress chan<- ProgressUpdate) (*models.ExtractionJob, error) {
	project, job, err := e.enqueue(projectID, artifact)
	if err != nil {
		return nil, err
	}

	go e.process(context.WithoutCancel(ctx), project, job, progress)

	return job, nil
}

// Run creates a job and processes it synchronously.
func (e *ExtractionEngine) Run(ctx context.Context, projectID string, artifact models.ArtifactType, progress chan<- ProgressUpdate) (*models.ExtractionJob, error) {
	project, job, err := e.enqueue(projectID, artifact)
	if err != nil {
		return nil, err
	}

	e.process(ctx, project, job, progress)

	return job, nil
}

// process drives one job from queued to a terminal state and folds the
// outcome into the project's summaries. Persistence failures after the
// fetch are logged rather than returned; the job row is the source of truth
// and the poller reconciles from it.
func (e *ExtractionEngine) process(ctx context.Context, project *models.Project, job *models.ExtractionJob, progress chan<- ProgressUpdate) {
	logger := e.logger.With("job", job.ID(), "project", project.Name, "artifact", job.Artifact)

	if err := job.Begin(); err != nil {
		logger.Error("failed to begin job", "error", err)
		return
	}
	if err := e.jobs.Update(job); err != nil {
		logger.Error("failed to persist job start", "error", err)
		e.release(job, "failed to start: "+err.Error(), logger)
		return
	}

	e.sendProgress(progress, fetchStartedUpdate(job))
	logger.Info("extraction started")

	fetchCtx, cancel := context.WithTimeout(ctx, e.config.Extraction.FetchTimeout())
	defer cancel()

	result := fetch(fetchCtx, e.source, project.Name, job.Artifact)

	if result.Err != nil {
		message := result.Err.Error()
		if errors.Is(result.Err, context.DeadlineExceeded) || errors.Is(result.Err, shared.ErrUpstreamTimeout) {
			message = fmt.Sprintf("extraction timeout after %s", e.config.Extraction.FetchTimeout())
		}

		if err := job.Fail(message); err != nil {
			logger.Error("failed to mark job failed", "error", err)
			return
		}
		if err := e.jobs.Update(job); err != nil {
			logger.Error("failed to persist job failure", "error", err)
		}
		if err := e.aggregator.Apply(project.ID(), job, nil); err != nil {
			logger.Error("failed to record failure summary", "error", err)
		}

		e.sendProgress(progress, fetchFailedUpdate(job, message))
		logger.Error("extraction failed", "error", result.Err)
		return
	}

	e.sendProgress(progress, fetchFetchedUpdate(job, result.Count))

	if err := job.Complete(result.Count, result.Count); err != nil {
		logger.Error("failed to complete job", "error", err)
		return
	}
	if err := e.jobs.Update(job); err != nil {
		logger.Error("failed to persist job completion", "error", err)
	}

	if err := e.aggregator.Apply(project.ID(), job, result.Items); err != nil {
		logger.Error("failed to record summary", "error", err)
	}

	e.sendProgress(progress, fetchCompletedUpdate(job))
	logger.Info("extraction completed", "count", result.Count)
}

// release fails a job that could not make progress so its row reaches a
// terminal state and frees the pair's active slot. Best effort; a row left
// non-terminal here would block every future start for the pair.
func (e *ExtractionEngine) release(job *models.ExtractionJob, message string, logger *log.Logger) {
	if err := job.Fail(message); err != nil {
		logger.Error("failed to mark job failed", "error", err)
		return
	}
	if err := e.jobs.Update(job); err != nil {
		logger.Error("failed to release job slot", "error", err)
	}
}

// Status retrieves the current state of a job by ID.
func (e *ExtractionEngine) Status(jobID string) (*models.ExtractionJob, error) {
	return e.jobs.Get(jobID)
}

// ListForProject returns a project's extraction history, newest first.
func (e *ExtractionEngine) ListForProject(projectID string) ([]*models.ExtractionJob, error) {
	if _, err := e.projects.Get(projectID); err != nil {
		return nil, err
	}
	return e.jobs.List(map[string]any{"project_id": projectID})
}
