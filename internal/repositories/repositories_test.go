package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// a single connection keeps the in-memory database shared across goroutines
	shared.ConfigureDatabase(db, 1, 1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// createTestProject inserts a project row for tests that need a parent record
func createTestProject(t *testing.T, db *sql.DB) *models.Project {
	t.Helper()

	repo := NewProjectRepository(db)
	project := models.NewProject("abc-123", "Phoenix")

	if err := repo.Create(project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return project
}

func TestProjectRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := models.NewProject("abc-123", "Phoenix")
		project.Description = "Legacy billing platform"

		if err := repo.Create(project); err != nil {
			t.Fatalf("failed to create project: %v", err)
		}

		if project.ID() == "" {
			t.Error("project ID should be set after creation")
		}

		if project.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", project.Sequence())
		}
	})

	t.Run("CreateDuplicateExternalID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		if err := repo.Create(models.NewProject("abc-123", "Phoenix")); err != nil {
			t.Fatalf("failed to create project: %v", err)
		}

		if err := repo.Create(models.NewProject("abc-123", "Phoenix Again")); err == nil {
			t.Error("expected duplicate external ID to fail")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := createTestProject(t, db)

		retrieved, err := repo.Get(project.ID())
		if err != nil {
			t.Fatalf("failed to get project: %v", err)
		}

		if retrieved.ExternalID != "abc-123" {
			t.Errorf("expected external ID abc-123, got %s", retrieved.ExternalID)
		}

		if retrieved.Name != "Phoenix" {
			t.Errorf("expected name Phoenix, got %s", retrieved.Name)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)

		_, err := repo.Get("missing-id")
		if !errors.Is(err, shared.ErrProjectNotFound) {
			t.Errorf("expected ErrProjectNotFound, got %v", err)
		}
	})

	t.Run("GetByExternalID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := createTestProject(t, db)

		retrieved, err := repo.GetByExternalID("abc-123")
		if err != nil {
			t.Fatalf("failed to get project: %v", err)
		}

		if retrieved.ID() != project.ID() {
			t.Errorf("expected ID %s, got %s", project.ID(), retrieved.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := createTestProject(t, db)

		project.Status = models.ProjectSelected
		if err := repo.Update(project); err != nil {
			t.Fatalf("failed to update project: %v", err)
		}

		retrieved, err := repo.Get(project.ID())
		if err != nil {
			t.Fatalf("failed to get project: %v", err)
		}

		if retrieved.Status != models.ProjectSelected {
			t.Errorf("expected status %s, got %s", models.ProjectSelected, retrieved.Status)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		for _, name := range []string{"Zephyr", "Atlas"} {
			if err := repo.Create(models.NewProject("ext-"+name, name)); err != nil {
				t.Fatalf("failed to create project: %v", err)
			}
		}

		projects, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list projects: %v", err)
		}

		if len(projects) != 2 {
			t.Fatalf("expected 2 projects, got %d", len(projects))
		}

		if projects[0].Name != "Atlas" {
			t.Errorf("expected projects ordered by name, got %s first", projects[0].Name)
		}
	})

	t.Run("UpsertSummaryReplacesWholesale", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := createTestProject(t, db)

		first := models.SuccessSummary(models.ArtifactWorkItems, 120, []models.ArtifactItem{
			{ExternalID: "1", Name: "Login fails on Safari"},
		})
		if err := repo.UpsertSummary(project.ID(), first); err != nil {
			t.Fatalf("failed to upsert summary: %v", err)
		}

		second := models.FailureSummary(models.ArtifactWorkItems, "request timed out")
		if err := repo.UpsertSummary(project.ID(), second); err != nil {
			t.Fatalf("failed to replace summary: %v", err)
		}

		retrieved, err := repo.Get(project.ID())
		if err != nil {
			t.Fatalf("failed to get project: %v", err)
		}

		summary, ok := retrieved.Summary(models.ArtifactWorkItems)
		if !ok {
			t.Fatal("expected a work items summary")
		}

		if summary.Extracted {
			t.Error("replaced summary should not be extracted")
		}

		if summary.Error != "request timed out" {
			t.Errorf("expected error message to survive the round trip, got %q", summary.Error)
		}

		if summary.Count != 0 {
			t.Errorf("expected count reset by wholesale replace, got %d", summary.Count)
		}

		if len(summary.Items) != 0 {
			t.Errorf("expected items reset by wholesale replace, got %d", len(summary.Items))
		}
	})

	t.Run("SummariesIsolatedPerType", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := createTestProject(t, db)

		if err := repo.UpsertSummary(project.ID(), models.SuccessSummary(models.ArtifactRepositories, 4, nil)); err != nil {
			t.Fatalf("failed to upsert summary: %v", err)
		}
		if err := repo.UpsertSummary(project.ID(), models.FailureSummary(models.ArtifactWikiPages, "wiki not provisioned")); err != nil {
			t.Fatalf("failed to upsert summary: %v", err)
		}

		retrieved, err := repo.Get(project.ID())
		if err != nil {
			t.Fatalf("failed to get project: %v", err)
		}

		repos, ok := retrieved.Summary(models.ArtifactRepositories)
		if !ok || !repos.Extracted || repos.Count != 4 {
			t.Errorf("repositories summary corrupted: %+v", repos)
		}

		wiki, ok := retrieved.Summary(models.ArtifactWikiPages)
		if !ok || wiki.Extracted || wiki.Error == "" {
			t.Errorf("wiki summary corrupted: %+v", wiki)
		}
	})
}

func TestJobRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		project := createTestProject(t, db)
		repo := NewJobRepository(db)
		job := models.NewExtractionJob(project.ID(), models.ArtifactWorkItems)

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if job.ID() == "" {
			t.Error("job ID should be set after creation")
		}
	})

	t.Run("CreateConflictOnActivePair", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		project := createTestProject(t, db)
		repo := NewJobRepository(db)

		if err := repo.Create(models.NewExtractionJob(project.ID(), models.ArtifactWorkItems)); err != nil {
			t.Fatalf("failed to create first job: %v", err)
		}

		err := repo.Create(models.NewExtractionJob(project.ID(), models.ArtifactWorkItems))
		if !errors.Is(err, shared.ErrJobConflict) {
			t.Errorf("expected ErrJobConflict, got %v", err)
		}
	})

	t.Run("NoConflictAcrossArtifactTypes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		project := createTestProject(t, db)
		repo := NewJobRepository(db)

		if err := repo.Create(models.NewExtractionJob(project.ID(), models.ArtifactWorkItems)); err != nil {
			t.Fatalf("failed to create first job: %v", err)
		}

		if err := repo.Create(models.NewExtractionJob(project.ID(), models.ArtifactRepositories)); err != nil {
			t.Errorf("different artifact types should not conflict: %v", err)
		}
	})

	t.Run("NoConflictAfterTerminal", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		project := createTestProject(t, db)
		repo := NewJobRepository(db)

		first := models.NewExtractionJob(project.ID(), models.ArtifactWorkItems)
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create first job: %v", err)
		}

		if err := first.Complete(10, 10); err != nil {
			t.Fatalf("failed to complete job: %v", err)
		}
		if err := repo.Update(first); err != nil {
			t.Fatalf("failed to persist completion: %v", err)
		}

		if err := repo.Create(models.NewExtractionJob(project.ID(), models.ArtifactWorkItems)); err != nil {
			t.Errorf("terminal job should release the active slot: %v", err)
		}
	})

	t.Run("UpdatePersistsLifecycle", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		project := createTestProject(t, db)
		repo := NewJobRepository(db)

		job := models.NewExtractionJob(project.ID(), models.ArtifactTestPlans)
		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if err := job.Begin(); err != nil {
			t.Fatalf("failed to begin job: %v", err)
		}
		if err := job.Fail("upstream returned 401"); err != nil {
			t.Fatalf("failed to fail job: %v", err)
		}
		if err := repo.Update(job); err != nil {
			t.Fatalf("failed to update job: %v", err)
		}

		retrieved, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}

		if retrieved.Status != models.JobFailed {
			t.Errorf("expected status failed, got %s", retrieved.Status)
		}

		if retrieved.ErrorMessage != "upstream returned 401" {
			t.Errorf("expected error message to persist, got %q", retrieved.ErrorMessage)
		}

		if retrieved.CompletedAt == nil {
			t.Error("expected completion timestamp to persist")
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)

		_, err := repo.Get("missing-id")
		if !errors.Is(err, shared.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		project := createTestProject(t, db)
		repo := NewJobRepository(db)

		artifacts := []models.ArtifactType{
			models.ArtifactAreaPaths,
			models.ArtifactWorkItems,
			models.ArtifactRepositories,
		}
		for _, artifact := range artifacts {
			if err := repo.Create(models.NewExtractionJob(project.ID(), artifact)); err != nil {
				t.Fatalf("failed to create job: %v", err)
			}
		}

		jobs, err := repo.List(map[string]any{"project_id": project.ID()})
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}

		if len(jobs) != 3 {
			t.Fatalf("expected 3 jobs, got %d", len(jobs))
		}

		if jobs[0].Artifact != models.ArtifactRepositories {
			t.Errorf("expected newest job first, got %s", jobs[0].Artifact)
		}

		for i := 1; i < len(jobs); i++ {
			if jobs[i-1].Sequence() < jobs[i].Sequence() {
				t.Errorf("jobs out of order at index %d", i)
			}
		}
	})

	t.Run("ListFiltersByStatus", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		project := createTestProject(t, db)
		repo := NewJobRepository(db)

		done := models.NewExtractionJob(project.ID(), models.ArtifactWorkItems)
		if err := repo.Create(done); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}
		if err := done.Complete(5, 5); err != nil {
			t.Fatalf("failed to complete job: %v", err)
		}
		if err := repo.Update(done); err != nil {
			t.Fatalf("failed to persist completion: %v", err)
		}

		if err := repo.Create(models.NewExtractionJob(project.ID(), models.ArtifactWorkItems)); err != nil {
			t.Fatalf("failed to create second job: %v", err)
		}

		jobs, err := repo.List(map[string]any{
			"project_id": project.ID(),
			"status":     string(models.JobQueued),
		})
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}

		if len(jobs) != 1 {
			t.Fatalf("expected 1 queued job, got %d", len(jobs))
		}
	})

	t.Run("ActiveFor", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		project := createTestProject(t, db)
		repo := NewJobRepository(db)

		job := models.NewExtractionJob(project.ID(), models.ArtifactBuildPipelines)
		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		active, err := repo.ActiveFor(project.ID(), models.ArtifactBuildPipelines)
		if err != nil {
			t.Fatalf("failed to find active job: %v", err)
		}

		if active.ID() != job.ID() {
			t.Errorf("expected active job %s, got %s", job.ID(), active.ID())
		}

		if _, err := repo.ActiveFor(project.ID(), models.ArtifactWikiPages); !errors.Is(err, shared.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound for idle pair, got %v", err)
		}
	})
}

func TestConnectionRepository(t *testing.T) {
	t.Run("CreateAndGet", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConnectionRepository(db)
		conn := models.NewConnection("prod", "contoso", "pat-token", models.ConnectionSource)

		if err := repo.Create(conn); err != nil {
			t.Fatalf("failed to create connection: %v", err)
		}

		retrieved, err := repo.Get(conn.ID())
		if err != nil {
			t.Fatalf("failed to get connection: %v", err)
		}

		if retrieved.Organization != "contoso" {
			t.Errorf("expected organization contoso, got %s", retrieved.Organization)
		}

		if retrieved.BaseURL != "https://dev.azure.com/contoso" {
			t.Errorf("unexpected base URL %s", retrieved.BaseURL)
		}
	})

	t.Run("ActiveSource", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConnectionRepository(db)

		target := models.NewConnection("target", "fabrikam", "pat-2", models.ConnectionTarget)
		if err := repo.Create(target); err != nil {
			t.Fatalf("failed to create connection: %v", err)
		}

		source := models.NewConnection("source", "contoso", "pat-1", models.ConnectionSource)
		if err := repo.Create(source); err != nil {
			t.Fatalf("failed to create connection: %v", err)
		}

		active, err := repo.ActiveSource()
		if err != nil {
			t.Fatalf("failed to resolve active source: %v", err)
		}

		if active.ID() != source.ID() {
			t.Errorf("expected source connection, got %s", active.Name)
		}
	})

	t.Run("ActiveSourceMissing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConnectionRepository(db)

		if _, err := repo.ActiveSource(); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("ListFiltersByType", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConnectionRepository(db)
		for _, connType := range []string{models.ConnectionSource, models.ConnectionTarget} {
			conn := models.NewConnection(connType, "org-"+connType, "pat", connType)
			if err := repo.Create(conn); err != nil {
				t.Fatalf("failed to create connection: %v", err)
			}
		}

		sources, err := repo.List(map[string]any{"type": models.ConnectionSource})
		if err != nil {
			t.Fatalf("failed to list connections: %v", err)
		}

		if len(sources) != 1 {
			t.Fatalf("expected 1 source connection, got %d", len(sources))
		}
	})
}
