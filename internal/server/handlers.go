package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/repositories"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/services"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/tasks"
)

// jobBody is the JSON shape for an extraction job.
type jobBody struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"projectId"`
	ArtifactType   string     `json:"artifactType"`
	Status         string     `json:"status"`
	Progress       int        `json:"progress"`
	ExtractedItems int        `json:"extractedItems"`
	TotalItems     int        `json:"totalItems"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

func newJobBody(job *models.ExtractionJob) jobBody {
	return jobBody{
		ID:             job.ID(),
		ProjectID:      job.ProjectID,
		ArtifactType:   job.Artifact.String(),
		Status:         string(job.Status),
		Progress:       job.Progress,
		ExtractedItems: job.ExtractedItems,
		TotalItems:     job.TotalItems,
		ErrorMessage:   job.ErrorMessage,
		StartedAt:      job.StartedAt,
		CompletedAt:    job.CompletedAt,
	}
}

// projectBody is the JSON shape for a tracked project.
type projectBody struct {
	ID              string                   `json:"id"`
	ExternalID      string                   `json:"externalId"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description,omitempty"`
	ProcessTemplate string                   `json:"processTemplate,omitempty"`
	SourceControl   string                   `json:"sourceControl,omitempty"`
	Visibility      string                   `json:"visibility,omitempty"`
	Status          string                   `json:"status"`
	Summaries       []models.ArtifactSummary `json:"summaries,omitempty"`
}

func newProjectBody(project *models.Project, includeSummaries bool) projectBody {
	body := projectBody{
		ID:              project.ID(),
		ExternalID:      project.ExternalID,
		Name:            project.Name,
		Description:     project.Description,
		ProcessTemplate: project.ProcessTemplate,
		SourceControl:   project.SourceControl,
		Visibility:      project.Visibility,
		Status:          project.Status,
	}

	if includeSummaries {
		for _, artifact := range models.AllArtifactTypes() {
			if summary, ok := project.Summary(artifact); ok {
				body.Summaries = append(body.Summaries, summary)
			}
		}
	}

	return body
}

// ProjectHandler serves project listing, syncing, summaries, and extraction.
type ProjectHandler struct {
	projects *repositories.ProjectRepository
	engine   tasks.Engine
	source   services.Source
	logger   *log.Logger
}

// NewProjectHandler creates a handler over the project repository and engine.
func NewProjectHandler(projects *repositories.ProjectRepository, engine tasks.Engine, source services.Source, logger *log.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, engine: engine, source: source, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ProjectHandler) Routes() []string {
	return []string{
		"/api/projects",
		"/api/projects/sync",
		"/api/projects/{id}/summary",
		"/api/projects/{id}/extract",
		"/api/projects/{id}/jobs",
		"/api/projects/{id}/repositories/{repoID}",
	}
}

func (h *ProjectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/sync"):
		h.sync(w, r)
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/repositories/"):
		h.repository(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/extract"):
		h.extract(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/summary"):
		h.summary(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/jobs"):
		h.history(w, r)
	case r.Method == http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list returns every tracked project without summaries.
func (h *ProjectHandler) list(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(map[string]any{})
	if err != nil {
		writeError(w, err)
		return
	}

	bodies := make([]projectBody, 0, len(projects))
	for _, project := range projects {
		bodies = append(bodies, newProjectBody(project, false))
	}

	writeJSON(w, http.StatusOK, bodies)
}

// sync imports projects from the source organization, updating known ones.
func (h *ProjectHandler) sync(w http.ResponseWriter, r *http.Request) {
	upstream, err := h.source.Projects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	synced := 0
	for _, remote := range upstream {
		if err := h.syncOne(r.Context(), remote); err != nil {
			h.logger.Error("failed to sync project", "project", remote.Name, "error", err)
			continue
		}
		synced++
	}

	writeJSON(w, http.StatusOK, map[string]int{"synced": synced, "total": len(upstream)})
}

func (h *ProjectHandler) syncOne(ctx context.Context, remote services.AzureProject) error {
	detail, err := h.source.Project(ctx, remote.ID)
	if err != nil {
		// capabilities are optional detail; keep the listing data
		detail = &remote
	}

	project, err := h.projects.GetByExternalID(remote.ID)
	if err != nil {
		project = models.NewProject(remote.ID, remote.Name)
		project.Description = remote.Description
		project.Visibility = remote.Visibility
		project.ProcessTemplate = detail.Capabilities.ProcessTemplate.TemplateName
		project.SourceControl = detail.Capabilities.VersionControl.SourceControlType
		return h.projects.Create(project)
	}

	project.Name = remote.Name
	project.Description = remote.Description
	project.Visibility = remote.Visibility
	project.ProcessTemplate = detail.Capabilities.ProcessTemplate.TemplateName
	project.SourceControl = detail.Capabilities.VersionControl.SourceControlType
	return h.projects.Update(project)
}

// summary returns one project with its artifact summaries.
func (h *ProjectHandler) summary(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newProjectBody(project, true))
}

// extractRequest is the body for POST /api/projects/{id}/extract.
type extractRequest struct {
	ArtifactType string `json:"artifactType"`
}

// extract starts an asynchronous extraction job for one artifact type.
func (h *ProjectHandler) extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrInvalidInput))
		return
	}

	if req.ArtifactType == "" {
		writeError(w, fmt.Errorf("%w: artifactType", shared.ErrMissingArgument))
		return
	}

	artifact, err := models.ParseArtifactType(req.ArtifactType)
	if err != nil {
		writeError(w, err)
		return
	}

	job, err := h.engine.Start(r.Context(), r.PathValue("id"), artifact, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, newJobBody(job))
}

// history returns a project's extraction jobs, newest first.
func (h *ProjectHandler) history(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.engine.ListForProject(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	bodies := make([]jobBody, 0, len(jobs))
	for _, job := range jobs {
		bodies = append(bodies, newJobBody(job))
	}

	writeJSON(w, http.StatusOK, bodies)
}

// repositoryBody is the JSON shape for an on-demand repository inspection.
type repositoryBody struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	DefaultBranch string                 `json:"defaultBranch"`
	WebURL        string                 `json:"webUrl,omitempty"`
	Branches      []services.GitBranch   `json:"branches"`
	Commits       []services.GitCommit   `json:"commits"`
	PullRequests  []services.PullRequest `json:"pullRequests"`
}

// recentCommitLimit bounds the commit list on repository inspection.
const recentCommitLimit = 10

// repository returns detail for one repository: its branches, recent
// commits, and active pull requests, fetched from the source on demand.
func (h *ProjectHandler) repository(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	repoID := r.PathValue("repoID")
	repos, err := h.source.Repositories(r.Context(), project.ExternalID)
	if err != nil {
		writeError(w, err)
		return
	}

	var repo *services.GitRepository
	for i := range repos {
		if repos[i].ID == repoID || repos[i].Name == repoID {
			repo = &repos[i]
			break
		}
	}
	if repo == nil {
		writeError(w, fmt.Errorf("%w: %s", shared.ErrRepoNotFound, repoID))
		return
	}

	branches, err := h.source.Branches(r.Context(), project.ExternalID, repo.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	commits, err := h.source.Commits(r.Context(), project.ExternalID, repo.ID, recentCommitLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	pulls, err := h.source.PullRequests(r.Context(), project.ExternalID, repo.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, repositoryBody{
		ID:            repo.ID,
		Name:          repo.Name,
		DefaultBranch: repo.DefaultBranch,
		WebURL:        repo.WebURL,
		Branches:      branches,
		Commits:       commits,
		PullRequests:  pulls,
	})
}

// JobHandler serves extraction job status lookups.
type JobHandler struct {
	engine tasks.Engine
}

// NewJobHandler creates a handler over the extraction engine.
func NewJobHandler(engine tasks.Engine) *JobHandler {
	return &JobHandler{engine: engine}
}

// Routes returns the HTTP routes this handler serves.
func (h *JobHandler) Routes() []string {
	return []string{"/api/jobs/{id}"}
}

func (h *JobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	job, err := h.engine.Status(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newJobBody(job))
}

// connectionBody is the JSON shape for a connection; tokens are never echoed.
type connectionBody struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	BaseURL      string `json:"baseUrl"`
	Type         string `json:"type"`
	Active       bool   `json:"active"`
}

func newConnectionBody(conn *models.Connection) connectionBody {
	return connectionBody{
		ID:           conn.ID(),
		Name:         conn.Name,
		Organization: conn.Organization,
		BaseURL:      conn.BaseURL,
		Type:         conn.Type,
		Active:       conn.Active,
	}
}

// SourceFactory builds a Source for a connection, letting tests substitute doubles.
type SourceFactory func(ctx context.Context, conn *models.Connection) (services.Source, error)

// ConnectionHandler serves connection CRUD and credential testing.
type ConnectionHandler struct {
	connections *repositories.ConnectionRepository
	newSource   SourceFactory
}

// NewConnectionHandler creates a handler over the connection repository.
func NewConnectionHandler(connections *repositories.ConnectionRepository, factory SourceFactory) *ConnectionHandler {
	if factory == nil {
		factory = func(ctx context.Context, conn *models.Connection) (services.Source, error) {
			return services.NewAzureDevOpsService(ctx, conn)
		}
	}
	return &ConnectionHandler{connections: connections, newSource: factory}
}

// Routes returns the HTTP routes this handler serves.
func (h *ConnectionHandler) Routes() []string {
	return []string{
		"/api/connections",
		"/api/connections/test",
	}
}

func (h *ConnectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/test"):
		h.test(w, r)
	case r.Method == http.MethodPost:
		h.create(w, r)
	case r.Method == http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConnectionHandler) list(w http.ResponseWriter, r *http.Request) {
	connections, err := h.connections.List(map[string]any{})
	if err != nil {
		writeError(w, err)
		return
	}

	bodies := make([]connectionBody, 0, len(connections))
	for _, conn := range connections {
		bodies = append(bodies, newConnectionBody(conn))
	}

	writeJSON(w, http.StatusOK, bodies)
}

// connectionRequest is the body for creating or testing a connection.
type connectionRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Token        string `json:"token"`
	Type         string `json:"type"`
}

func (h *ConnectionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrInvalidInput))
		return
	}

	if req.Type == "" {
		req.Type = models.ConnectionSource
	}

	conn := models.NewConnection(req.Name, req.Organization, req.Token, req.Type)
	if err := h.connections.Create(conn); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newConnectionBody(conn))
}

// testResult is the body for POST /api/connections/test.
type testResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ConnectionHandler) test(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrInvalidInput))
		return
	}

	conn := models.NewConnection(req.Name, req.Organization, req.Token, models.ConnectionSource)
	if err := conn.Validate(); err != nil {
		writeError(w, err)
		return
	}

	source, err := h.newSource(r.Context(), conn)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := source.TestConnection(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, testResult{Success: false, Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, testResult{
		Success: true,
		Message: fmt.Sprintf("connected to %s", conn.Organization),
	})
}

// statisticsBody aggregates dashboard counts across the database.
type statisticsBody struct {
	Projects    int            `json:"projects"`
	Connections int            `json:"connections"`
	Jobs        map[string]int `json:"jobs"`
}

// StatusHandler serves health checks and dashboard statistics.
type StatusHandler struct {
	projects    *repositories.ProjectRepository
	jobs        *repositories.JobRepository
	connections *repositories.ConnectionRepository
}

// NewStatusHandler creates a handler over the repositories.
func NewStatusHandler(projects *repositories.ProjectRepository, jobs *repositories.JobRepository, connections *repositories.ConnectionRepository) *StatusHandler {
	return &StatusHandler{projects: projects, jobs: jobs, connections: connections}
}

// Routes returns the HTTP routes this handler serves.
func (h *StatusHandler) Routes() []string {
	return []string{
		"/api/health",
		"/api/statistics",
	}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if strings.HasSuffix(r.URL.Path, "/health") {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	projects, err := h.projects.List(map[string]any{})
	if err != nil {
		writeError(w, err)
		return
	}

	connections, err := h.connections.List(map[string]any{})
	if err != nil {
		writeError(w, err)
		return
	}

	jobs, err := h.jobs.List(map[string]any{})
	if err != nil {
		writeError(w, err)
		return
	}

	stats := statisticsBody{
		Projects:    len(projects),
		Connections: len(connections),
		Jobs:        map[string]int{},
	}
	for _, job := range jobs {
		stats.Jobs[string(job.Status)]++
	}

	writeJSON(w, http.StatusOK, stats)
}
