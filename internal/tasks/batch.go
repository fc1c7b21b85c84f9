package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// BatchOpts contains configuration for batch extraction runs.
type BatchOpts struct {
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Job starts per second (default: 5)
}

// ArtifactOutcome records how one artifact type fared in a batch run.
type ArtifactOutcome struct {
	Artifact models.ArtifactType
	Job      *models.ExtractionJob // nil when the job could not be created
	Error    error
}

// BatchResult contains all outcomes from a batch extraction.
type BatchResult struct {
	ProjectID string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int // pairs whose slot was already held by an active job
	Outcomes  []ArtifactOutcome
}

// ExtractBatch runs extractions for multiple artifact types concurrently.
//
// This method implements a worker pool pattern with rate limiting. Each
// artifact type becomes its own job; a pair whose slot is already held is
// recorded as skipped rather than failing the whole batch.
func (e *ExtractionEngine) ExtractBatch(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	projectID string,
	artifacts []models.ArtifactType,
	opts BatchOpts,
) (*BatchResult, error) {
	if len(artifacts) == 0 {
		artifacts = models.AllArtifactTypes()
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = float64(e.config.Extraction.RateLimit)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if _, err := e.projects.Get(projectID); err != nil {
		return nil, err
	}

	result := &BatchResult{
		ProjectID: projectID,
		Total:     len(artifacts),
		Outcomes:  make([]ArtifactOutcome, 0, len(artifacts)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan models.ArtifactType, len(artifacts))
	outcomes := make(chan ArtifactOutcome, len(artifacts))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.batchWorker(ctx, &wg, limiter, projectID, jobs, outcomes, progress)
	}

	for i, artifact := range artifacts {
		e.sendProgress(progress, batchQueuedUpdate(artifact, i+1, len(artifacts)))
		jobs <- artifact
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	settled := 0
	for outcome := range outcomes {
		settled++
		result.Outcomes = append(result.Outcomes, outcome)

		switch {
		case errors.Is(outcome.Error, shared.ErrJobConflict):
			result.Skipped++
		case outcome.Error != nil, outcome.Job == nil, outcome.Job.Status != models.JobCompleted:
			result.Failed++
		default:
			result.Succeeded++
		}

		if outcome.Job != nil {
			e.sendProgress(progress, batchSettledUpdate(outcome.Job, settled, len(artifacts)))
		}
	}

	return result, nil
}

// batchWorker runs extractions from the jobs channel until it is drained.
func (e *ExtractionEngine) batchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	projectID string,
	jobs <-chan models.ArtifactType,
	outcomes chan<- ArtifactOutcome,
	progress chan<- ProgressUpdate,
) {
	defer wg.Done()

	for artifact := range jobs {
		select {
		case <-ctx.Done():
			outcomes <- ArtifactOutcome{Artifact: artifact, Error: ctx.Err()}
			continue
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			outcomes <- ArtifactOutcome{Artifact: artifact, Error: err}
			continue
		}

		job, err := e.Run(ctx, projectID, artifact, progress)
		if err != nil {
			outcomes <- ArtifactOutcome{Artifact: artifact, Error: fmt.Errorf("failed to run %s: %w", artifact, err)}
			continue
		}

		outcomes <- ArtifactOutcome{Artifact: artifact, Job: job}
	}
}
