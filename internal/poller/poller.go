// package poller watches extraction jobs until they settle.
//
// A Poller re-reads a job row on a fixed tick until the job reaches a
// terminal state, the polling ceiling passes, or the caller cancels. When a
// job settles, the poller runs its settlement hook exactly once per job id
// no matter how many watchers observed the same job.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/repositories"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// Poller polls extraction job status on an interval with an absolute ceiling.
//
// Checks run synchronously inside the watch loop, so ticks never overlap: a
// slow read simply delays the next check. time.Ticker drops missed ticks.
type Poller struct {
	jobs     *repositories.JobRepository
	interval time.Duration
	ceiling  time.Duration
	logger   *log.Logger

	// OnSettled runs exactly once per job id when a watched job settles.
	// Optional; the default logs the outcome.
	OnSettled func(*models.ExtractionJob)

	mu      sync.Mutex
	settled map[string]bool
}

// NewPoller creates a poller using the configured interval and ceiling.
func NewPoller(jobs *repositories.JobRepository, config *shared.Config, logger *log.Logger) *Poller {
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		jobs:     jobs,
		interval: config.Extraction.PollInterval(),
		ceiling:  config.Extraction.PollCeiling(),
		logger:   logger,
		settled:  make(map[string]bool),
	}
}

// Watch polls a job until it settles or the ceiling passes.
//
// Each observed state is sent on updates (non-blocking, may be nil). A job
// still running when the ceiling passes is not an error in the job's own
// lifecycle: Watch returns the last observed state wrapped with
// [shared.ErrPollTimeout] and the job keeps running server-side.
func (p *Poller) Watch(ctx context.Context, jobID string, updates chan<- *models.ExtractionJob) (*models.ExtractionJob, error) {
	deadline := time.Now().Add(p.ceiling)

	job, err := p.check(jobID, updates)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		p.reconcile(job)
		return job, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
			job, err = p.check(jobID, updates)
			if err != nil {
				return nil, err
			}
			if job.Status.Terminal() {
				p.reconcile(job)
				return job, nil
			}
			if time.Now().After(deadline) {
				return job, fmt.Errorf("%w: job %s still running after %s", shared.ErrPollTimeout, jobID, p.ceiling)
			}
		}
	}
}

// check reads the job row and forwards the observed state without blocking.
func (p *Poller) check(jobID string, updates chan<- *models.ExtractionJob) (*models.ExtractionJob, error) {
	job, err := p.jobs.Get(jobID)
	if err != nil {
		return nil, err
	}

	if updates != nil {
		select {
		case updates <- job:
		default:
		}
	}

	return job, nil
}

// reconcile runs the settlement hook exactly once per job id.
func (p *Poller) reconcile(job *models.ExtractionJob) {
	p.mu.Lock()
	if p.settled[job.ID()] {
		p.mu.Unlock()
		return
	}
	p.settled[job.ID()] = true
	p.mu.Unlock()

	if p.OnSettled != nil {
		p.OnSettled(job)
		return
	}

	if job.Status == models.JobFailed {
		p.logger.Error("job settled", "job", job.ID(), "artifact", job.Artifact, "error", job.ErrorMessage)
		return
	}
	p.logger.Info("job settled", "job", job.ID(), "artifact", job.Artifact, "items", job.ExtractedItems)
}
