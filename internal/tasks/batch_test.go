package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

func TestExtractBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Extracts All Types By Default", func(t *testing.T) {
		h := setupEngine(t)

		result, err := h.engine.ExtractBatch(ctx, nil, h.project.ID(), nil, BatchOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		total := len(models.AllArtifactTypes())
		if result.Total != total {
			t.Errorf("expected %d total, got %d", total, result.Total)
		}

		if result.Succeeded != total {
			t.Errorf("expected %d successes, got %d (failed %d, skipped %d)",
				total, result.Succeeded, result.Failed, result.Skipped)
		}

		project, _ := h.projects.Get(h.project.ID())
		if len(project.Summaries) != total {
			t.Errorf("expected a summary per artifact type, got %d", len(project.Summaries))
		}
	})

	t.Run("Partial Failure Does Not Abort Batch", func(t *testing.T) {
		h := setupEngine(t)
		h.source.Errs[models.ArtifactWikiPages] = shared.ErrUpstreamRequest

		artifacts := []models.ArtifactType{
			models.ArtifactWorkItems,
			models.ArtifactWikiPages,
			models.ArtifactRepositories,
		}

		result, err := h.engine.ExtractBatch(ctx, nil, h.project.ID(), artifacts, BatchOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Succeeded != 2 {
			t.Errorf("expected 2 successes, got %d", result.Succeeded)
		}

		if result.Failed != 1 {
			t.Errorf("expected 1 failure, got %d", result.Failed)
		}

		project, _ := h.projects.Get(h.project.ID())
		wiki, ok := project.Summary(models.ArtifactWikiPages)
		if !ok || wiki.Extracted || wiki.Error == "" {
			t.Errorf("expected wiki failure summary, got %+v", wiki)
		}
	})

	t.Run("Skips Pairs With Active Jobs", func(t *testing.T) {
		h := setupEngine(t)
		h.source.Delay = 300 * time.Millisecond

		blocker, err := h.engine.Start(ctx, h.project.ID(), models.ArtifactWorkItems, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		artifacts := []models.ArtifactType{models.ArtifactWorkItems}
		result, err := h.engine.ExtractBatch(ctx, nil, h.project.ID(), artifacts, BatchOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Skipped != 1 {
			t.Errorf("expected 1 skipped, got %d", result.Skipped)
		}

		waitTerminal(t, h.engine, blocker.ID())
	})

	t.Run("Unknown Project", func(t *testing.T) {
		h := setupEngine(t)

		_, err := h.engine.ExtractBatch(ctx, nil, "missing-id", nil, BatchOpts{})
		if !errors.Is(err, shared.ErrProjectNotFound) {
			t.Errorf("expected ErrProjectNotFound, got %v", err)
		}
	})

	t.Run("Emits Batch Progress", func(t *testing.T) {
		h := setupEngine(t)
		progress := make(chan ProgressUpdate, 256)

		artifacts := []models.ArtifactType{models.ArtifactAreaPaths, models.ArtifactTestPlans}
		if _, err := h.engine.ExtractBatch(ctx, progress, h.project.ID(), artifacts, BatchOpts{RateLimit: 1000}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var queued, settled int
		for {
			select {
			case update := <-progress:
				switch update.Phase {
				case BatchQueued:
					queued++
				case BatchSettled:
					settled++
				}
				continue
			default:
			}
			break
		}

		if queued != 2 {
			t.Errorf("expected 2 queued updates, got %d", queued)
		}

		if settled != 2 {
			t.Errorf("expected 2 settled updates, got %d", settled)
		}
	})
}
