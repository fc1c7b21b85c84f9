// package services defines interface Source for reading project data
// from an Azure DevOps organization over its REST API.
package services

import (
	"context"
)

// Source defines the read-side interface for an Azure DevOps organization.
// Every method maps to one or more REST API calls scoped to a project.
type Source interface {
	// TestConnection verifies credentials by listing a single project.
	TestConnection(ctx context.Context) error

	// Projects lists every project visible to the credential.
	Projects(ctx context.Context) ([]AzureProject, error)

	// Project retrieves one project with capabilities included.
	Project(ctx context.Context, projectID string) (*AzureProject, error)

	// AreaPaths walks the area classification tree for a project.
	AreaPaths(ctx context.Context, project string) ([]ClassificationNode, error)

	// IterationPaths walks the iteration classification tree for a project.
	IterationPaths(ctx context.Context, project string) ([]ClassificationNode, error)

	// WorkItemTypes lists the work item types defined for a project.
	WorkItemTypes(ctx context.Context, project string) ([]WorkItemType, error)

	// Fields lists the work item fields visible to a project.
	Fields(ctx context.Context, project string) ([]Field, error)

	// BoardColumns lists board columns across every team board in a project.
	BoardColumns(ctx context.Context, project string) ([]BoardColumn, error)

	// WikiPages lists the wikis provisioned for a project.
	WikiPages(ctx context.Context, project string) ([]WikiPage, error)

	// WorkItems runs a WIQL query and hydrates the matching work items.
	WorkItems(ctx context.Context, project string) ([]WorkItem, error)

	// TestCases hydrates work items of type Test Case.
	TestCases(ctx context.Context, project string) ([]WorkItem, error)

	// Repositories lists the git repositories in a project.
	Repositories(ctx context.Context, project string) ([]GitRepository, error)

	// Branches lists the branch refs for one repository.
	Branches(ctx context.Context, project, repositoryID string) ([]GitBranch, error)

	// Commits lists up to top recent commits for one repository.
	Commits(ctx context.Context, project, repositoryID string, top int) ([]GitCommit, error)

	// PullRequests lists the active pull requests for one repository.
	PullRequests(ctx context.Context, project, repositoryID string) ([]PullRequest, error)

	// TestPlans lists the test plans in a project.
	TestPlans(ctx context.Context, project string) ([]TestPlan, error)

	// TestSuites lists suites across every test plan in a project.
	TestSuites(ctx context.Context, project string) ([]TestSuite, error)

	// TestRuns lists the test runs recorded for a project.
	TestRuns(ctx context.Context, project string) ([]TestRun, error)

	// BuildDefinitions lists the build pipeline definitions in a project.
	BuildDefinitions(ctx context.Context, project string) ([]BuildDefinition, error)

	// ReleaseDefinitions lists the release pipeline definitions in a project.
	ReleaseDefinitions(ctx context.Context, project string) ([]ReleaseDefinition, error)

	// PipelineRuns lists runs across every pipeline in a project.
	PipelineRuns(ctx context.Context, project string) ([]PipelineRun, error)

	// Name returns the organization label for logging.
	Name() string
}
