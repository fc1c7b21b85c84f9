package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// JobRepository implements models.Repository[*models.ExtractionJob].
//
// The extraction_jobs table carries a partial unique index over non-terminal
// rows, so inserting a second active job for the same (project, artifact type)
// pair fails at the database; Create maps that failure to shared.ErrJobConflict.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new JobRepository with the given database connection
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job with generated ID and sequence.
//
// Returns shared.ErrJobConflict when an active job already holds the pair's slot.
func (r *JobRepository) Create(job *models.ExtractionJob) error {
	sequence, err := NextSequence(r.db, "extraction_jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	job.SetID(shared.GenerateID())
	job.SetSequence(sequence)

	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO extraction_jobs (
			id, sequence, project_id, artifact_type, status, progress,
			extracted_items, total_items, error_message, started_at,
			completed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		job.ID(),
		job.Sequence(),
		job.ProjectID,
		job.Artifact.String(),
		string(job.Status),
		job.Progress,
		job.ExtractedItems,
		job.TotalItems,
		nullable(job.ErrorMessage),
		job.StartedAt,
		job.CompletedAt,
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s/%s", shared.ErrJobConflict, job.ProjectID, job.Artifact)
		}
		return fmt.Errorf("failed to insert job: %w", err)
	}

	return nil
}

// Get retrieves a job by ID
func (r *JobRepository) Get(id string) (*models.ExtractionJob, error) {
	query := jobSelect + " WHERE id = ?"
	return r.scanJob(r.db.QueryRow(query, id))
}

// Update persists the job's current state.
func (r *JobRepository) Update(job *models.ExtractionJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	job.SetUpdatedAt(now)

	query := `
		UPDATE extraction_jobs
		SET status = ?, progress = ?, extracted_items = ?, total_items = ?,
			error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		string(job.Status),
		job.Progress,
		job.ExtractedItems,
		job.TotalItems,
		nullable(job.ErrorMessage),
		job.CompletedAt,
		now,
		job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrJobNotFound, job.ID())
	}

	return nil
}

// Delete removes a job from the database
func (r *JobRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM extraction_jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}

	return nil
}

// List retrieves jobs matching the given criteria, newest first
func (r *JobRepository) List(criteria map[string]any) ([]*models.ExtractionJob, error) {
	query := jobSelect + " WHERE 1 = 1"
	args := []any{}

	if projectID, ok := criteria["project_id"].(string); ok && projectID != "" {
		query += " AND project_id = ?"
		args = append(args, projectID)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if artifact, ok := criteria["artifact_type"].(string); ok && artifact != "" {
		query += " AND artifact_type = ?"
		args = append(args, artifact)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ExtractionJob
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

// ActiveFor returns the non-terminal job holding the pair's slot, if any.
func (r *JobRepository) ActiveFor(projectID string, artifact models.ArtifactType) (*models.ExtractionJob, error) {
	query := jobSelect + " WHERE project_id = ? AND artifact_type = ? AND status IN ('queued', 'in_progress')"
	return r.scanJob(r.db.QueryRow(query, projectID, artifact.String()))
}

const jobSelect = `
	SELECT
		id, sequence, project_id, artifact_type, status, progress,
		extracted_items, total_items, error_message, started_at,
		completed_at, created_at, updated_at
	FROM extraction_jobs
`

// scanJob scans one row into a [models.ExtractionJob]
func (r *JobRepository) scanJob(row scanner) (*models.ExtractionJob, error) {
	var (
		id             string
		sequence       int
		projectID      string
		artifact       string
		status         string
		progress       int
		extractedItems int
		totalItems     int
		errorMessage   sql.NullString
		startedAt      time.Time
		completedAt    sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(
		&id, &sequence, &projectID, &artifact, &status, &progress,
		&extractedItems, &totalItems, &errorMessage, &startedAt,
		&completedAt, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	job := &models.ExtractionJob{
		ProjectID:      projectID,
		Artifact:       models.ArtifactType(artifact),
		Status:         models.JobStatus(status),
		Progress:       progress,
		ExtractedItems: extractedItems,
		TotalItems:     totalItems,
		StartedAt:      startedAt,
	}
	job.SetID(id)
	job.SetSequence(sequence)
	job.SetCreatedAt(createdAt)
	job.SetUpdatedAt(updatedAt)
	if errorMessage.Valid {
		job.ErrorMessage = errorMessage.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}

	return job, nil
}
