package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// ConnectionRepository implements models.Repository[*models.Connection].
type ConnectionRepository struct {
	db *sql.DB
}

// NewConnectionRepository creates a new ConnectionRepository with the given database connection
func NewConnectionRepository(db *sql.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Create inserts a new connection into the database with generated ID and sequence
func (r *ConnectionRepository) Create(conn *models.Connection) error {
	sequence, err := NextSequence(r.db, "connections")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	conn.SetID(shared.GenerateID())
	conn.SetSequence(sequence)

	if err := conn.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO connections (
			id, sequence, name, organization, base_url, token, type, is_active,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		conn.ID(),
		conn.Sequence(),
		conn.Name,
		conn.Organization,
		conn.BaseURL,
		conn.Token,
		conn.Type,
		conn.Active,
		conn.CreatedAt(),
		conn.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert connection: %w", err)
	}

	return nil
}

// Get retrieves a connection by ID
func (r *ConnectionRepository) Get(id string) (*models.Connection, error) {
	query := connectionSelect + " WHERE id = ?"
	return r.scanConnection(r.db.QueryRow(query, id))
}

// Update modifies an existing connection in the database
func (r *ConnectionRepository) Update(conn *models.Connection) error {
	if err := conn.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	conn.SetUpdatedAt(now)

	query := `
		UPDATE connections
		SET name = ?, organization = ?, base_url = ?, token = ?, type = ?,
			is_active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		conn.Name,
		conn.Organization,
		conn.BaseURL,
		conn.Token,
		conn.Type,
		conn.Active,
		now,
		conn.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update connection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("connection not found: %s", conn.ID())
	}

	return nil
}

// Delete removes a connection from the database
func (r *ConnectionRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM connections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("connection not found: %s", id)
	}

	return nil
}

// List retrieves all connections matching the given criteria, oldest first
func (r *ConnectionRepository) List(criteria map[string]any) ([]*models.Connection, error) {
	query := connectionSelect + " WHERE 1 = 1"
	args := []any{}

	if connType, ok := criteria["type"].(string); ok && connType != "" {
		query += " AND type = ?"
		args = append(args, connType)
	}

	if active, ok := criteria["is_active"].(bool); ok {
		query += " AND is_active = ?"
		args = append(args, active)
	}

	query += " ORDER BY sequence"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer rows.Close()

	var connections []*models.Connection
	for rows.Next() {
		conn, err := r.scanConnection(rows)
		if err != nil {
			return nil, err
		}
		connections = append(connections, conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return connections, nil
}

// ActiveSource returns the active source connection used for extraction.
func (r *ConnectionRepository) ActiveSource() (*models.Connection, error) {
	query := connectionSelect + " WHERE type = ? AND is_active = 1 ORDER BY sequence LIMIT 1"
	conn, err := r.scanConnection(r.db.QueryRow(query, models.ConnectionSource))
	if err != nil {
		return nil, fmt.Errorf("%w: no active source connection", shared.ErrMissingCredentials)
	}
	return conn, nil
}

const connectionSelect = `
	SELECT id, sequence, name, organization, base_url, token, type, is_active,
		created_at, updated_at
	FROM connections
`

// scanConnection scans one row into a [models.Connection]
func (r *ConnectionRepository) scanConnection(row scanner) (*models.Connection, error) {
	var (
		id           string
		sequence     int
		name         string
		organization string
		baseURL      string
		token        string
		connType     string
		active       bool
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(
		&id, &sequence, &name, &organization, &baseURL, &token, &connType,
		&active, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("connection not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan connection: %w", err)
	}

	conn := &models.Connection{
		Name:         name,
		Organization: organization,
		BaseURL:      baseURL,
		Token:        token,
		Type:         connType,
		Active:       active,
	}
	conn.SetID(id)
	conn.SetSequence(sequence)
	conn.SetCreatedAt(createdAt)
	conn.SetUpdatedAt(updatedAt)

	return conn, nil
}
