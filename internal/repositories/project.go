package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// ProjectRepository implements models.Repository[*models.Project].
//
// Projects own a map of artifact summaries stored in the artifact_summaries
// table; each summary row is replaced wholesale per (project, artifact type).
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new ProjectRepository with the given database connection
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project into the database with generated ID and sequence
func (r *ProjectRepository) Create(project *models.Project) error {
	sequence, err := NextSequence(r.db, "projects")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	project.SetID(shared.GenerateID())
	project.SetSequence(sequence)

	if err := project.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO projects (
			id, sequence, external_id, name, description, process_template,
			source_control, visibility, status, connection_id, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		project.ID(),
		project.Sequence(),
		project.ExternalID,
		project.Name,
		project.Description,
		project.ProcessTemplate,
		project.SourceControl,
		project.Visibility,
		project.Status,
		nullable(project.ConnectionID),
		project.CreatedAt(),
		project.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID, including its artifact summaries
func (r *ProjectRepository) Get(id string) (*models.Project, error) {
	query := projectSelect + " WHERE id = ?"

	project, err := r.scanProject(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadSummaries(project); err != nil {
		return nil, err
	}

	return project, nil
}

// GetByExternalID retrieves a project by its Azure DevOps identifier
func (r *ProjectRepository) GetByExternalID(externalID string) (*models.Project, error) {
	query := projectSelect + " WHERE external_id = ?"

	project, err := r.scanProject(r.db.QueryRow(query, externalID))
	if err != nil {
		return nil, err
	}

	if err := r.loadSummaries(project); err != nil {
		return nil, err
	}

	return project, nil
}

// Update modifies an existing project in the database
func (r *ProjectRepository) Update(project *models.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	project.SetUpdatedAt(now)

	query := `
		UPDATE projects
		SET name = ?, description = ?, process_template = ?, source_control = ?,
			visibility = ?, status = ?, connection_id = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		project.Name,
		project.Description,
		project.ProcessTemplate,
		project.SourceControl,
		project.Visibility,
		project.Status,
		nullable(project.ConnectionID),
		now,
		project.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrProjectNotFound, project.ID())
	}

	return nil
}

// Delete removes a project and its summaries
func (r *ProjectRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM artifact_summaries WHERE project_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete summaries: %w", err)
	}

	result, err := r.db.Exec("DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrProjectNotFound, id)
	}

	return nil
}

// List retrieves all projects matching the given criteria, ordered by name
func (r *ProjectRepository) List(criteria map[string]any) ([]*models.Project, error) {
	query := projectSelect + " WHERE 1 = 1"
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if connectionID, ok := criteria["connection_id"].(string); ok && connectionID != "" {
		query += " AND connection_id = ?"
		args = append(args, connectionID)
	}

	query += " ORDER BY name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := r.scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return projects, nil
}

// UpsertSummary replaces the stored summary for (project, artifact type) wholesale.
func (r *ProjectRepository) UpsertSummary(projectID string, summary models.ArtifactSummary) error {
	if err := summary.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	items, err := json.Marshal(summary.Items)
	if err != nil {
		return fmt.Errorf("failed to encode summary items: %w", err)
	}

	query := `
		INSERT INTO artifact_summaries (project_id, artifact_type, extracted, count, items, error, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, artifact_type) DO UPDATE SET
			extracted = excluded.extracted,
			count = excluded.count,
			items = excluded.items,
			error = excluded.error,
			updated_at = excluded.updated_at
	`

	_, err = r.db.Exec(query,
		projectID,
		summary.Artifact.String(),
		summary.Extracted,
		summary.Count,
		string(items),
		nullable(summary.Error),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}

	return nil
}

// loadSummaries populates the project's summaries map from the artifact_summaries table.
func (r *ProjectRepository) loadSummaries(project *models.Project) error {
	rows, err := r.db.Query(
		"SELECT artifact_type, extracted, count, items, error FROM artifact_summaries WHERE project_id = ?",
		project.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			artifact  string
			extracted bool
			count     int
			items     string
			errMsg    sql.NullString
		)
		if err := rows.Scan(&artifact, &extracted, &count, &items, &errMsg); err != nil {
			return fmt.Errorf("failed to scan summary: %w", err)
		}

		summary := models.ArtifactSummary{
			Artifact:  models.ArtifactType(artifact),
			Extracted: extracted,
			Count:     count,
			Items:     []models.ArtifactItem{},
		}
		if err := json.Unmarshal([]byte(items), &summary.Items); err != nil {
			return fmt.Errorf("failed to decode summary items: %w", err)
		}
		if errMsg.Valid {
			summary.Error = errMsg.String
		}

		project.PutSummary(summary)
	}

	return rows.Err()
}

const projectSelect = `
	SELECT
		id, sequence, external_id, name, description, process_template,
		source_control, visibility, status, connection_id, created_at, updated_at
	FROM projects
`

// scanner abstracts sql.Row and sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

// scanProject scans one row into a [models.Project]
func (r *ProjectRepository) scanProject(row scanner) (*models.Project, error) {
	var (
		id              string
		sequence        int
		externalID      string
		name            string
		description     sql.NullString
		processTemplate sql.NullString
		sourceControl   sql.NullString
		visibility      sql.NullString
		status          string
		connectionID    sql.NullString
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(
		&id, &sequence, &externalID, &name, &description, &processTemplate,
		&sourceControl, &visibility, &status, &connectionID, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	project := models.NewProject(externalID, name)
	project.SetID(id)
	project.SetSequence(sequence)
	project.SetCreatedAt(createdAt)
	project.SetUpdatedAt(updatedAt)
	project.Description = description.String
	project.ProcessTemplate = processTemplate.String
	project.SourceControl = sourceControl.String
	project.Visibility = visibility.String
	project.Status = status
	project.ConnectionID = connectionID.String

	return project, nil
}

// nullable converts empty strings to NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
