package ui

import (
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/tasks"
)

// projectsLoadedMsg carries the stored project list fetched during Init.
type projectsLoadedMsg struct {
	projects []*models.Project
	err      error
}

// progressUpdateMsg wraps engine progress events for the Elm update loop.
type progressUpdateMsg tasks.ProgressUpdate

// extractionCompleteMsg carries the settled batch result when the run ends.
type extractionCompleteMsg struct {
	result *tasks.BatchResult
	err    error
}
