// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/services"
)

// MockSource is a configurable test double for [services.Source].
//
// Counts controls how many items each artifact read returns (default 3),
// Errs injects per-artifact failures, and Delay stalls every read so
// timeout behavior can be exercised with a short deadline.
type MockSource struct {
	ProjectList []services.AzureProject
	Counts      map[models.ArtifactType]int
	Errs        map[models.ArtifactType]error
	Err         error
	Delay       time.Duration
}

func NewMockSource() *MockSource {
	return &MockSource{
		Counts: map[models.ArtifactType]int{},
		Errs:   map[models.ArtifactType]error{},
	}
}

// stall waits out the configured delay and returns any injected error.
func (m *MockSource) stall(ctx context.Context, artifact models.ArtifactType) error {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if err, ok := m.Errs[artifact]; ok {
		return err
	}
	return m.Err
}

func (m *MockSource) count(artifact models.ArtifactType) int {
	if n, ok := m.Counts[artifact]; ok {
		return n
	}
	return 3
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) TestConnection(ctx context.Context) error {
	return m.Err
}

func (m *MockSource) Projects(ctx context.Context) ([]services.AzureProject, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ProjectList, nil
}

func (m *MockSource) Project(ctx context.Context, projectID string) (*services.AzureProject, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.ProjectList {
		if p.ID == projectID {
			return &p, nil
		}
	}
	return nil, errors.New("project not found")
}

func (m *MockSource) AreaPaths(ctx context.Context, project string) ([]services.ClassificationNode, error) {
	if err := m.stall(ctx, models.ArtifactAreaPaths); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactAreaPaths)
	nodes := make([]services.ClassificationNode, n)
	for i := range nodes {
		nodes[i] = services.ClassificationNode{ID: i + 1, Name: fmt.Sprintf("Area %d", i+1)}
	}
	return nodes, nil
}

func (m *MockSource) IterationPaths(ctx context.Context, project string) ([]services.ClassificationNode, error) {
	if err := m.stall(ctx, models.ArtifactIterationPaths); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactIterationPaths)
	nodes := make([]services.ClassificationNode, n)
	for i := range nodes {
		nodes[i] = services.ClassificationNode{ID: i + 1, Name: fmt.Sprintf("Sprint %d", i+1)}
	}
	return nodes, nil
}

func (m *MockSource) WorkItemTypes(ctx context.Context, project string) ([]services.WorkItemType, error) {
	if err := m.stall(ctx, models.ArtifactWorkItemTypes); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactWorkItemTypes)
	types := make([]services.WorkItemType, n)
	for i := range types {
		types[i] = services.WorkItemType{Name: fmt.Sprintf("Type %d", i+1), ReferenceName: fmt.Sprintf("Custom.Type%d", i+1)}
	}
	return types, nil
}

func (m *MockSource) Fields(ctx context.Context, project string) ([]services.Field, error) {
	if err := m.stall(ctx, models.ArtifactCustomFields); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactCustomFields)
	fields := make([]services.Field, n)
	for i := range fields {
		fields[i] = services.Field{Name: fmt.Sprintf("Field %d", i+1), ReferenceName: fmt.Sprintf("Custom.Field%d", i+1), Type: "string"}
	}
	return fields, nil
}

func (m *MockSource) BoardColumns(ctx context.Context, project string) ([]services.BoardColumn, error) {
	if err := m.stall(ctx, models.ArtifactBoardColumns); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactBoardColumns)
	columns := make([]services.BoardColumn, n)
	for i := range columns {
		columns[i] = services.BoardColumn{ID: fmt.Sprintf("c%d", i+1), Name: fmt.Sprintf("Column %d", i+1)}
	}
	return columns, nil
}

func (m *MockSource) WikiPages(ctx context.Context, project string) ([]services.WikiPage, error) {
	if err := m.stall(ctx, models.ArtifactWikiPages); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactWikiPages)
	wikis := make([]services.WikiPage, n)
	for i := range wikis {
		wikis[i] = services.WikiPage{ID: fmt.Sprintf("w%d", i+1), Name: fmt.Sprintf("Wiki %d", i+1), Type: "projectWiki"}
	}
	return wikis, nil
}

func (m *MockSource) WorkItems(ctx context.Context, project string) ([]services.WorkItem, error) {
	if err := m.stall(ctx, models.ArtifactWorkItems); err != nil {
		return nil, err
	}
	return m.workItems(m.count(models.ArtifactWorkItems), "Bug"), nil
}

func (m *MockSource) TestCases(ctx context.Context, project string) ([]services.WorkItem, error) {
	if err := m.stall(ctx, models.ArtifactTestCases); err != nil {
		return nil, err
	}
	return m.workItems(m.count(models.ArtifactTestCases), "Test Case"), nil
}

func (m *MockSource) workItems(n int, itemType string) []services.WorkItem {
	items := make([]services.WorkItem, n)
	for i := range items {
		items[i] = services.WorkItem{
			ID: i + 1,
			Fields: map[string]any{
				"System.Title":        fmt.Sprintf("Item %d", i+1),
				"System.State":        "Active",
				"System.WorkItemType": itemType,
			},
		}
	}
	return items
}

func (m *MockSource) Repositories(ctx context.Context, project string) ([]services.GitRepository, error) {
	if err := m.stall(ctx, models.ArtifactRepositories); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactRepositories)
	repos := make([]services.GitRepository, n)
	for i := range repos {
		repos[i] = services.GitRepository{ID: fmt.Sprintf("r%d", i+1), Name: fmt.Sprintf("repo-%d", i+1), DefaultBranch: "refs/heads/main"}
	}
	return repos, nil
}

func (m *MockSource) Branches(ctx context.Context, project, repositoryID string) ([]services.GitBranch, error) {
	if err := m.stall(ctx, models.ArtifactRepositories); err != nil {
		return nil, err
	}
	return []services.GitBranch{
		{Name: "refs/heads/main", ObjectID: "aaaa"},
		{Name: "refs/heads/develop", ObjectID: "bbbb"},
	}, nil
}

func (m *MockSource) Commits(ctx context.Context, project, repositoryID string, top int) ([]services.GitCommit, error) {
	if err := m.stall(ctx, models.ArtifactRepositories); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactRepositories)
	if top > 0 && top < n {
		n = top
	}
	commits := make([]services.GitCommit, n)
	for i := range commits {
		commits[i] = services.GitCommit{CommitID: fmt.Sprintf("c%d", i+1), Comment: fmt.Sprintf("Commit %d", i+1)}
	}
	return commits, nil
}

func (m *MockSource) PullRequests(ctx context.Context, project, repositoryID string) ([]services.PullRequest, error) {
	if err := m.stall(ctx, models.ArtifactRepositories); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactRepositories)
	prs := make([]services.PullRequest, n)
	for i := range prs {
		prs[i] = services.PullRequest{ID: 100 + i, Title: fmt.Sprintf("PR %d", i+1), Status: "active"}
	}
	return prs, nil
}

func (m *MockSource) TestPlans(ctx context.Context, project string) ([]services.TestPlan, error) {
	if err := m.stall(ctx, models.ArtifactTestPlans); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactTestPlans)
	plans := make([]services.TestPlan, n)
	for i := range plans {
		plans[i] = services.TestPlan{ID: i + 1, Name: fmt.Sprintf("Plan %d", i+1), State: "Active"}
	}
	return plans, nil
}

func (m *MockSource) TestSuites(ctx context.Context, project string) ([]services.TestSuite, error) {
	if err := m.stall(ctx, models.ArtifactTestSuites); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactTestSuites)
	suites := make([]services.TestSuite, n)
	for i := range suites {
		suites[i] = services.TestSuite{ID: i + 1, Name: fmt.Sprintf("Suite %d", i+1)}
	}
	return suites, nil
}

func (m *MockSource) TestRuns(ctx context.Context, project string) ([]services.TestRun, error) {
	if err := m.stall(ctx, models.ArtifactTestResults); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactTestResults)
	runs := make([]services.TestRun, n)
	for i := range runs {
		runs[i] = services.TestRun{ID: i + 1, Name: fmt.Sprintf("Run %d", i+1), State: "Completed"}
	}
	return runs, nil
}

func (m *MockSource) BuildDefinitions(ctx context.Context, project string) ([]services.BuildDefinition, error) {
	if err := m.stall(ctx, models.ArtifactBuildPipelines); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactBuildPipelines)
	defs := make([]services.BuildDefinition, n)
	for i := range defs {
		defs[i] = services.BuildDefinition{ID: i + 1, Name: fmt.Sprintf("Build %d", i+1)}
	}
	return defs, nil
}

func (m *MockSource) ReleaseDefinitions(ctx context.Context, project string) ([]services.ReleaseDefinition, error) {
	if err := m.stall(ctx, models.ArtifactReleasePipelines); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactReleasePipelines)
	defs := make([]services.ReleaseDefinition, n)
	for i := range defs {
		defs[i] = services.ReleaseDefinition{ID: i + 1, Name: fmt.Sprintf("Release %d", i+1)}
	}
	return defs, nil
}

func (m *MockSource) PipelineRuns(ctx context.Context, project string) ([]services.PipelineRun, error) {
	if err := m.stall(ctx, models.ArtifactPipelineRuns); err != nil {
		return nil, err
	}
	n := m.count(models.ArtifactPipelineRuns)
	runs := make([]services.PipelineRun, n)
	for i := range runs {
		runs[i] = services.PipelineRun{ID: i + 1, Name: fmt.Sprintf("Run %d", i+1), Result: "succeeded"}
	}
	return runs, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
