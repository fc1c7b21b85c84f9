package tasks

import (
	"fmt"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/repositories"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// Aggregator folds terminal jobs into project artifact summaries.
//
// Each fold replaces the summary for the job's artifact type wholesale: a
// completed job stores the item preview and count, a failed job overwrites
// whatever was there before with the error state. Summaries for other
// artifact types are untouched.
type Aggregator struct {
	projects *repositories.ProjectRepository
}

// NewAggregator creates an aggregator over the given project repository.
func NewAggregator(projects *repositories.ProjectRepository) *Aggregator {
	return &Aggregator{projects: projects}
}

// Apply records the outcome of a terminal job against its project.
func (a *Aggregator) Apply(projectID string, job *models.ExtractionJob, items []models.ArtifactItem) error {
	if !job.Status.Terminal() {
		return fmt.Errorf("%w: cannot aggregate job in status %q", shared.ErrInvalidInput, job.Status)
	}

	var summary models.ArtifactSummary
	if job.Status == models.JobFailed {
		summary = models.FailureSummary(job.Artifact, job.ErrorMessage)
	} else {
		summary = models.SuccessSummary(job.Artifact, job.ExtractedItems, items)
	}

	return a.projects.UpsertSummary(projectID, summary)
}
