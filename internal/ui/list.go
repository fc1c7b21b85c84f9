package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
)

var (
	_ list.Item = projectItem{}
	_ list.Item = artifactItem{}
)

// projectItem wraps [models.Project] to implement [list.Item].
type projectItem struct {
	project *models.Project
}

func (i projectItem) FilterValue() string { return i.project.Name }
func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string {
	desc := i.project.Status
	if len(i.project.Summaries) > 0 {
		desc = fmt.Sprintf("%s • %d artifact types extracted", desc, len(i.project.Summaries))
	}
	if i.project.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.project.Description)
	}
	return desc
}

// artifactItem wraps [models.ArtifactType] to implement [list.Item].
type artifactItem struct {
	artifact models.ArtifactType
	project  *models.Project
}

func (i artifactItem) FilterValue() string { return i.artifact.String() }
func (i artifactItem) Title() string       { return i.artifact.String() }
func (i artifactItem) Description() string {
	summary, ok := i.project.Summary(i.artifact)
	if !ok {
		return "not extracted"
	}
	if summary.Extracted {
		return fmt.Sprintf("%d items extracted", summary.Count)
	}
	return fmt.Sprintf("failed • %s", summary.Error)
}
