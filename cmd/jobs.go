package main

import (
	"context"
	"fmt"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/formatter"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/poller"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	"github.com/urfave/cli/v3"
)

// jobView is the serialized form of a job for CLI output.
type jobView struct {
	ID             string `json:"id"`
	ProjectID      string `json:"projectId"`
	Artifact       string `json:"artifactType"`
	Status         string `json:"status"`
	Progress       int    `json:"progress"`
	ExtractedItems int    `json:"extractedItems"`
	TotalItems     int    `json:"totalItems"`
	Error          string `json:"error,omitempty"`
}

func newJobView(job *models.ExtractionJob) jobView {
	return jobView{
		ID:             job.ID(),
		ProjectID:      job.ProjectID,
		Artifact:       job.Artifact.String(),
		Status:         string(job.Status),
		Progress:       job.Progress,
		ExtractedItems: job.ExtractedItems,
		TotalItems:     job.TotalItems,
		Error:          job.ErrorMessage,
	}
}

// JobsStatus shows the current state of one job.
func (r *Runner) JobsStatus(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id argument is required", shared.ErrMissingArgument)
	}

	if err := r.bootstrap(); err != nil {
		return err
	}

	job, err := r.jobs.Get(id)
	if err != nil {
		return err
	}

	return r.writeJSON(newJobView(job), cmd.Bool("pretty"))
}

// JobsHistory shows a project's extraction history, newest first.
func (r *Runner) JobsHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	project, err := r.findProject(cmd.String("project"))
	if err != nil {
		return err
	}

	jobs, err := r.jobs.List(map[string]any{"project_id": project.ID()})
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		r.writePlain("No extraction jobs recorded for '%s'\n", project.Name)
		return nil
	}

	text, err := formatter.JobsToText(jobs)
	if err != nil {
		return fmt.Errorf("failed to render job history: %w", err)
	}
	return r.writePlain("%s", text)
}

// JobsWatch polls a job until it settles, printing state transitions.
func (r *Runner) JobsWatch(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id argument is required", shared.ErrMissingArgument)
	}

	if err := r.bootstrap(); err != nil {
		return err
	}

	p := poller.NewPoller(r.jobs, r.config, r.logger)

	updates := make(chan *models.ExtractionJob, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		var lastStatus models.JobStatus
		for job := range updates {
			if job.Status == lastStatus {
				continue
			}
			lastStatus = job.Status
			r.writePlain("%s: %s (%d%%)\n", job.Artifact, job.Status, job.Progress)
		}
	}()

	job, err := p.Watch(ctx, id, updates)
	close(updates)
	<-done

	if err != nil {
		return err
	}

	if job.Status == models.JobFailed {
		r.writePlain("\n✗ Extraction failed: %s\n", job.ErrorMessage)
		return nil
	}

	r.writePlain("\n✓ Extracted %d items\n", job.ExtractedItems)
	return nil
}
