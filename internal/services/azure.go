// Azure DevOps REST API implementation of [Source]
//
// Response types based on https://learn.microsoft.com/en-us/rest/api/azure/devops/?view=azure-devops-rest-7.0
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

const (
	apiVersion = "7.0"

	// the work item batch endpoint rejects more than 200 ids per call
	workItemBatchSize = 200
)

// listResponse is the envelope Azure DevOps wraps around every collection.
type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

// AzureProject represents a project in an Azure DevOps organization.
type AzureProject struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	State        string              `json:"state"`
	Visibility   string              `json:"visibility"`
	Capabilities projectCapabilities `json:"capabilities"`
}

type projectCapabilities struct {
	ProcessTemplate struct {
		TemplateName string `json:"templateName"`
	} `json:"processTemplate"`
	VersionControl struct {
		SourceControlType string `json:"sourceControlType"`
	} `json:"versioncontrol"`
}

// ClassificationNode is one node in the area or iteration tree.
type ClassificationNode struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name"`
	Path        string               `json:"path"`
	HasChildren bool                 `json:"hasChildren"`
	Children    []ClassificationNode `json:"children"`
}

// WorkItemType represents a work item type definition (Bug, Task, ...).
type WorkItemType struct {
	Name          string `json:"name"`
	ReferenceName string `json:"referenceName"`
	Description   string `json:"description"`
}

// Field represents a work item field definition.
type Field struct {
	Name          string `json:"name"`
	ReferenceName string `json:"referenceName"`
	Type          string `json:"type"`
	Usage         string `json:"usage"`
}

// Team represents a team within a project.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Board represents a team board.
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BoardColumn represents one column on a team board.
type BoardColumn struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColumnType string `json:"columnType"`
	ItemLimit  int    `json:"itemLimit"`
	BoardName  string `json:"-"`
}

// WikiPage represents a provisioned wiki.
type WikiPage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// WorkItem represents a hydrated work item with its fields expanded.
type WorkItem struct {
	ID     int            `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Title returns the System.Title field, if present.
func (w WorkItem) Title() string {
	return w.fieldString("System.Title")
}

// State returns the System.State field, if present.
func (w WorkItem) State() string {
	return w.fieldString("System.State")
}

// Type returns the System.WorkItemType field, if present.
func (w WorkItem) Type() string {
	return w.fieldString("System.WorkItemType")
}

func (w WorkItem) fieldString(key string) string {
	if v, ok := w.Fields[key].(string); ok {
		return v
	}
	return ""
}

type wiqlReference struct {
	ID int `json:"id"`
}

type wiqlResponse struct {
	WorkItems []wiqlReference `json:"workItems"`
}

// GitRepository represents a git repository in a project.
type GitRepository struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DefaultBranch string `json:"defaultBranch"`
	Size          int64  `json:"size"`
	WebURL        string `json:"webUrl"`
}

// GitBranch represents one branch ref in a repository.
type GitBranch struct {
	Name     string `json:"name"`
	ObjectID string `json:"objectId"`
}

// GitCommit represents one commit in a repository.
type GitCommit struct {
	CommitID string `json:"commitId"`
	Comment  string `json:"comment"`
}

// PullRequest represents a pull request in a repository.
type PullRequest struct {
	ID     int    `json:"pullRequestId"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// TestPlan represents a test plan.
type TestPlan struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// TestSuite represents a suite within a test plan.
type TestSuite struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	PlanName string `json:"-"`
}

// TestRun represents a recorded test run.
type TestRun struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	TotalTests  int    `json:"totalTests"`
	PassedTests int    `json:"passedTests"`
}

// BuildDefinition represents a build pipeline definition.
type BuildDefinition struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// ReleaseDefinition represents a release pipeline definition.
type ReleaseDefinition struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Pipeline represents a YAML pipeline.
type Pipeline struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PipelineRun represents one run of a pipeline.
type PipelineRun struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Result       string `json:"result"`
	PipelineName string `json:"-"`
}

// AzureDevOpsService implements the [Source] interface against the Azure
// DevOps REST API. Authentication uses a personal access token presented
// as a bearer credential via [oauth2.StaticTokenSource].
type AzureDevOpsService struct {
	organization string
	baseURL      string
	httpClient   *http.Client
}

// NewAzureDevOpsService creates a service for one organization connection.
func NewAzureDevOpsService(ctx context.Context, conn *models.Connection) (*AzureDevOpsService, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: conn.Token})

	return &AzureDevOpsService{
		organization: conn.Organization,
		baseURL:      conn.BaseURL,
		httpClient:   oauth2.NewClient(ctx, source),
	}, nil
}

func (s *AzureDevOpsService) Name() string {
	return s.organization
}

// doRequest performs an authenticated HTTP request against the organization.
func (s *AzureDevOpsService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	apiURL := s.baseURL + "/" + strings.TrimPrefix(endpoint, "/")

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s %s", shared.ErrUpstreamTimeout, method, endpoint)
		}
		return fmt.Errorf("%w: %v", shared.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d from %s", shared.ErrUpstreamAuth, resp.StatusCode, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d from %s", shared.ErrUpstreamRequest, resp.StatusCode, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
	}

	return nil
}

// TestConnection lists a single project to verify the credential works.
func (s *AzureDevOpsService) TestConnection(ctx context.Context) error {
	var response listResponse[AzureProject]
	endpoint := fmt.Sprintf("/_apis/projects?api-version=%s&$top=1", apiVersion)
	return s.doRequest(ctx, "GET", endpoint, nil, &response)
}

// Projects lists every project visible to the credential.
func (s *AzureDevOpsService) Projects(ctx context.Context) ([]AzureProject, error) {
	var response listResponse[AzureProject]
	endpoint := fmt.Sprintf("/_apis/projects?api-version=%s", apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// Project retrieves one project with capabilities included.
func (s *AzureDevOpsService) Project(ctx context.Context, projectID string) (*AzureProject, error) {
	var project AzureProject
	endpoint := fmt.Sprintf("/_apis/projects/%s?includeCapabilities=true&includeHistory=true&api-version=%s",
		url.PathEscape(projectID), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// AreaPaths walks the area classification tree for a project.
func (s *AzureDevOpsService) AreaPaths(ctx context.Context, project string) ([]ClassificationNode, error) {
	return s.classificationNodes(ctx, project, "areas")
}

// IterationPaths walks the iteration classification tree for a project.
func (s *AzureDevOpsService) IterationPaths(ctx context.Context, project string) ([]ClassificationNode, error) {
	return s.classificationNodes(ctx, project, "iterations")
}

func (s *AzureDevOpsService) classificationNodes(ctx context.Context, project, group string) ([]ClassificationNode, error) {
	var root ClassificationNode
	endpoint := fmt.Sprintf("/%s/_apis/wit/classificationnodes/%s?$depth=10&api-version=%s",
		url.PathEscape(project), group, apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &root); err != nil {
		return nil, err
	}
	return flattenNodes(root, ""), nil
}

// flattenNodes walks a classification tree into a flat, path-qualified list.
func flattenNodes(node ClassificationNode, parent string) []ClassificationNode {
	path := node.Name
	if parent != "" {
		path = parent + "\\" + node.Name
	}
	node.Path = path

	nodes := []ClassificationNode{node}
	for _, child := range node.Children {
		nodes = append(nodes, flattenNodes(child, path)...)
	}
	return nodes
}

// WorkItemTypes lists the work item types defined for a project.
func (s *AzureDevOpsService) WorkItemTypes(ctx context.Context, project string) ([]WorkItemType, error) {
	var response listResponse[WorkItemType]
	endpoint := fmt.Sprintf("/%s/_apis/wit/workitemtypes?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// Fields lists the work item fields visible to a project.
func (s *AzureDevOpsService) Fields(ctx context.Context, project string) ([]Field, error) {
	var response listResponse[Field]
	endpoint := fmt.Sprintf("/%s/_apis/wit/fields?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// Teams lists the teams in a project.
func (s *AzureDevOpsService) Teams(ctx context.Context, project string) ([]Team, error) {
	var response listResponse[Team]
	endpoint := fmt.Sprintf("/_apis/projects/%s/teams?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// BoardColumns lists board columns across every team board in a project.
func (s *AzureDevOpsService) BoardColumns(ctx context.Context, project string) ([]BoardColumn, error) {
	teams, err := s.Teams(ctx, project)
	if err != nil {
		return nil, err
	}

	var columns []BoardColumn
	for _, team := range teams {
		var boards listResponse[Board]
		endpoint := fmt.Sprintf("/%s/%s/_apis/work/boards?api-version=%s",
			url.PathEscape(project), url.PathEscape(team.ID), apiVersion)
		if err := s.doRequest(ctx, "GET", endpoint, nil, &boards); err != nil {
			return nil, err
		}

		for _, board := range boards.Value {
			var response listResponse[BoardColumn]
			endpoint := fmt.Sprintf("/%s/%s/_apis/work/boards/%s/columns?api-version=%s",
				url.PathEscape(project), url.PathEscape(team.ID), url.PathEscape(board.ID), apiVersion)
			if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
				return nil, err
			}
			for _, column := range response.Value {
				column.BoardName = board.Name
				columns = append(columns, column)
			}
		}
	}

	return columns, nil
}

// WikiPages lists the wikis provisioned for a project.
func (s *AzureDevOpsService) WikiPages(ctx context.Context, project string) ([]WikiPage, error) {
	var response listResponse[WikiPage]
	endpoint := fmt.Sprintf("/%s/_apis/wiki/wikis?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// WorkItems queries every work item in the project and hydrates the results.
func (s *AzureDevOpsService) WorkItems(ctx context.Context, project string) ([]WorkItem, error) {
	wiql := fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = '%s' ORDER BY [System.Id]",
		project)
	return s.queryWorkItems(ctx, project, wiql)
}

// TestCases hydrates work items of type Test Case.
func (s *AzureDevOpsService) TestCases(ctx context.Context, project string) ([]WorkItem, error) {
	wiql := fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = '%s' AND [System.WorkItemType] = 'Test Case' ORDER BY [System.Id]",
		project)
	return s.queryWorkItems(ctx, project, wiql)
}

// queryWorkItems runs a WIQL query and then hydrates matches in batches.
// The WIQL endpoint returns only ids; detail hydration fetches fields in
// id-ascending batches of at most 200.
func (s *AzureDevOpsService) queryWorkItems(ctx context.Context, project, wiql string) ([]WorkItem, error) {
	var refs wiqlResponse
	endpoint := fmt.Sprintf("/%s/_apis/wit/wiql?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "POST", endpoint, map[string]string{"query": wiql}, &refs); err != nil {
		return nil, err
	}

	if len(refs.WorkItems) == 0 {
		return []WorkItem{}, nil
	}

	var items []WorkItem
	for start := 0; start < len(refs.WorkItems); start += workItemBatchSize {
		end := min(start+workItemBatchSize, len(refs.WorkItems))

		ids := make([]string, 0, end-start)
		for _, ref := range refs.WorkItems[start:end] {
			ids = append(ids, strconv.Itoa(ref.ID))
		}

		var batch listResponse[WorkItem]
		endpoint := fmt.Sprintf("/%s/_apis/wit/workitems?ids=%s&$expand=all&api-version=%s",
			url.PathEscape(project), strings.Join(ids, ","), apiVersion)
		if err := s.doRequest(ctx, "GET", endpoint, nil, &batch); err != nil {
			return nil, err
		}
		items = append(items, batch.Value...)
	}

	return items, nil
}

// Repositories lists the git repositories in a project.
func (s *AzureDevOpsService) Repositories(ctx context.Context, project string) ([]GitRepository, error) {
	var response listResponse[GitRepository]
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// Branches lists the branch refs for a repository.
func (s *AzureDevOpsService) Branches(ctx context.Context, project, repositoryID string) ([]GitBranch, error) {
	var response listResponse[GitBranch]
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories/%s/refs?filter=heads/&api-version=%s",
		url.PathEscape(project), url.PathEscape(repositoryID), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// Commits lists recent commits for a repository, newest first.
func (s *AzureDevOpsService) Commits(ctx context.Context, project, repositoryID string, top int) ([]GitCommit, error) {
	if top <= 0 {
		top = 10
	}
	var response listResponse[GitCommit]
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories/%s/commits?$top=%d&api-version=%s",
		url.PathEscape(project), url.PathEscape(repositoryID), top, apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// PullRequests lists active pull requests for a repository.
func (s *AzureDevOpsService) PullRequests(ctx context.Context, project, repositoryID string) ([]PullRequest, error) {
	var response listResponse[PullRequest]
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories/%s/pullrequests?api-version=%s",
		url.PathEscape(project), url.PathEscape(repositoryID), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// TestPlans lists the test plans in a project.
func (s *AzureDevOpsService) TestPlans(ctx context.Context, project string) ([]TestPlan, error) {
	var response listResponse[TestPlan]
	endpoint := fmt.Sprintf("/%s/_apis/test/plans?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// TestSuites lists suites across every test plan in a project.
func (s *AzureDevOpsService) TestSuites(ctx context.Context, project string) ([]TestSuite, error) {
	plans, err := s.TestPlans(ctx, project)
	if err != nil {
		return nil, err
	}

	var suites []TestSuite
	for _, plan := range plans {
		var response listResponse[TestSuite]
		endpoint := fmt.Sprintf("/%s/_apis/test/plans/%d/suites?api-version=%s",
			url.PathEscape(project), plan.ID, apiVersion)
		if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
			return nil, err
		}
		for _, suite := range response.Value {
			suite.PlanName = plan.Name
			suites = append(suites, suite)
		}
	}

	return suites, nil
}

// TestRuns lists the test runs recorded for a project.
func (s *AzureDevOpsService) TestRuns(ctx context.Context, project string) ([]TestRun, error) {
	var response listResponse[TestRun]
	endpoint := fmt.Sprintf("/%s/_apis/test/runs?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// BuildDefinitions lists the build pipeline definitions in a project.
func (s *AzureDevOpsService) BuildDefinitions(ctx context.Context, project string) ([]BuildDefinition, error) {
	var response listResponse[BuildDefinition]
	endpoint := fmt.Sprintf("/%s/_apis/build/definitions?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// ReleaseDefinitions lists the release pipeline definitions in a project.
func (s *AzureDevOpsService) ReleaseDefinitions(ctx context.Context, project string) ([]ReleaseDefinition, error) {
	var response listResponse[ReleaseDefinition]
	endpoint := fmt.Sprintf("/%s/_apis/release/definitions?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// Pipelines lists the YAML pipelines in a project.
func (s *AzureDevOpsService) Pipelines(ctx context.Context, project string) ([]Pipeline, error) {
	var response listResponse[Pipeline]
	endpoint := fmt.Sprintf("/%s/_apis/pipelines?api-version=%s", url.PathEscape(project), apiVersion)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// PipelineRuns lists runs across every pipeline in a project.
func (s *AzureDevOpsService) PipelineRuns(ctx context.Context, project string) ([]PipelineRun, error) {
	pipelines, err := s.Pipelines(ctx, project)
	if err != nil {
		return nil, err
	}

	var runs []PipelineRun
	for _, pipeline := range pipelines {
		var response listResponse[PipelineRun]
		endpoint := fmt.Sprintf("/%s/_apis/pipelines/%d/runs?api-version=%s",
			url.PathEscape(project), pipeline.ID, apiVersion)
		if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
			return nil, err
		}
		for _, run := range response.Value {
			run.PipelineName = pipeline.Name
			runs = append(runs, run)
		}
	}

	return runs, nil
}
