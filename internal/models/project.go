package models

import (
	"fmt"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// Project statuses mirror the migration dashboard lifecycle.
const (
	ProjectAvailable  = "available"
	ProjectSelected   = "selected"
	ProjectInProgress = "in_progress"
	ProjectMigrated   = "migrated"
)

// Project is one Azure DevOps project tracked for migration.
//
// Summaries holds the per-artifact-type extraction outcomes, populated by
// the aggregator after a job settles; the job log itself lives in the jobs
// table. A project is never deleted during normal operation.
type Project struct {
	Record
	ExternalID      string
	Name            string
	Description     string
	ProcessTemplate string
	SourceControl   string
	Visibility      string
	Status          string
	ConnectionID    string

	Summaries map[ArtifactType]ArtifactSummary
}

// NewProject creates a project in the available state.
func NewProject(externalID, name string) *Project {
	return &Project{
		Record:     NewRecord(),
		ExternalID: externalID,
		Name:       name,
		Status:     ProjectAvailable,
		Summaries:  make(map[ArtifactType]ArtifactSummary),
	}
}

// Summary returns the extraction summary for an artifact type, if present.
func (p *Project) Summary(artifact ArtifactType) (ArtifactSummary, bool) {
	s, ok := p.Summaries[artifact]
	return s, ok
}

// PutSummary replaces the summary for the given artifact type wholesale.
func (p *Project) PutSummary(s ArtifactSummary) {
	if p.Summaries == nil {
		p.Summaries = make(map[ArtifactType]ArtifactSummary)
	}
	p.Summaries[s.Artifact] = s
}

// Validate checks required project fields.
func (p *Project) Validate() error {
	if p.ExternalID == "" {
		return fmt.Errorf("%w: project external id is required", shared.ErrInvalidInput)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: project name is required", shared.ErrInvalidInput)
	}
	switch p.Status {
	case ProjectAvailable, ProjectSelected, ProjectInProgress, ProjectMigrated:
	default:
		return fmt.Errorf("%w: unknown project status %q", shared.ErrInvalidInput, p.Status)
	}
	return nil
}
