package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/repositories"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	tu "github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/testing"
)

// setupPoller wires a fast poller over an in-memory database
func setupPoller(t *testing.T) (*Poller, *repositories.JobRepository, *models.ExtractionJob) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// a single connection keeps the in-memory database shared across goroutines
	shared.ConfigureDatabase(db, 1, 1)
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	projects := repositories.NewProjectRepository(db)
	project := models.NewProject("abc-123", "Phoenix")
	if err := projects.Create(project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	jobs := repositories.NewJobRepository(db)
	job := models.NewExtractionJob(project.ID(), models.ArtifactWorkItems)
	if err := jobs.Create(job); err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	p := NewPoller(jobs, shared.DefaultConfig(), log.New(&tu.FWriter{}))
	p.interval = 10 * time.Millisecond
	p.ceiling = time.Second

	return p, jobs, job
}

// completeAfter marks the job completed after a delay
func completeAfter(t *testing.T, jobs *repositories.JobRepository, job *models.ExtractionJob, delay time.Duration) {
	t.Helper()

	go func() {
		time.Sleep(delay)
		if err := job.Complete(5, 5); err != nil {
			t.Errorf("failed to complete job: %v", err)
			return
		}
		if err := jobs.Update(job); err != nil {
			t.Errorf("failed to persist completion: %v", err)
		}
	}()
}

func TestPoller(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns Immediately For Terminal Job", func(t *testing.T) {
		p, jobs, job := setupPoller(t)

		if err := job.Complete(3, 3); err != nil {
			t.Fatalf("failed to complete job: %v", err)
		}
		if err := jobs.Update(job); err != nil {
			t.Fatalf("failed to persist completion: %v", err)
		}

		settled, err := p.Watch(ctx, job.ID(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if settled.Status != models.JobCompleted {
			t.Errorf("expected completed, got %s", settled.Status)
		}
	})

	t.Run("Observes Settlement During Watch", func(t *testing.T) {
		p, jobs, job := setupPoller(t)
		completeAfter(t, jobs, job, 40*time.Millisecond)

		updates := make(chan *models.ExtractionJob, 64)
		settled, err := p.Watch(ctx, job.ID(), updates)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if settled.Status != models.JobCompleted {
			t.Errorf("expected completed, got %s", settled.Status)
		}

		if len(updates) == 0 {
			t.Error("expected observed states on the updates channel")
		}
	})

	t.Run("Ceiling Leaves Job Running", func(t *testing.T) {
		p, _, job := setupPoller(t)
		p.ceiling = 50 * time.Millisecond

		last, err := p.Watch(ctx, job.ID(), nil)
		if !errors.Is(err, shared.ErrPollTimeout) {
			t.Fatalf("expected ErrPollTimeout, got %v", err)
		}

		if last == nil {
			t.Fatal("expected the last observed state alongside the timeout")
		}

		if !last.Active() {
			t.Errorf("job should still be active after poll timeout, got %s", last.Status)
		}
	})

	t.Run("Context Cancellation", func(t *testing.T) {
		p, _, job := setupPoller(t)

		cancelCtx, cancel := context.WithCancel(ctx)
		go func() {
			time.Sleep(30 * time.Millisecond)
			cancel()
		}()

		if _, err := p.Watch(cancelCtx, job.ID(), nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Unknown Job", func(t *testing.T) {
		p, _, _ := setupPoller(t)

		if _, err := p.Watch(ctx, "missing-id", nil); !errors.Is(err, shared.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("Reconciles Exactly Once", func(t *testing.T) {
		p, jobs, job := setupPoller(t)

		var calls atomic.Int32
		p.OnSettled = func(*models.ExtractionJob) {
			calls.Add(1)
		}

		completeAfter(t, jobs, job, 30*time.Millisecond)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := p.Watch(ctx, job.ID(), nil); err != nil {
					t.Errorf("watcher failed: %v", err)
				}
			}()
		}
		wg.Wait()

		if calls.Load() != 1 {
			t.Errorf("expected exactly one reconciliation, got %d", calls.Load())
		}
	})

	t.Run("Failed Job Settles Too", func(t *testing.T) {
		p, jobs, job := setupPoller(t)

		go func() {
			time.Sleep(30 * time.Millisecond)
			if err := job.Fail("upstream returned 500"); err != nil {
				t.Errorf("failed to fail job: %v", err)
				return
			}
			if err := jobs.Update(job); err != nil {
				t.Errorf("failed to persist failure: %v", err)
			}
		}()

		settled, err := p.Watch(ctx, job.ID(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if settled.Status != models.JobFailed {
			t.Errorf("expected failed, got %s", settled.Status)
		}

		if settled.ErrorMessage != "upstream returned 500" {
			t.Errorf("unexpected error message %q", settled.ErrorMessage)
		}
	})
}
