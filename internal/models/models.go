// package models defines the data model for the project migration service
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the migration service.
// Implementations include Project, Connection, ExtractionJob.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Record implements the identity and timestamp half of [Model].
// Domain types embed it and add their own fields plus Validate.
type Record struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
}

func (r *Record) ID() string           { return r.id }
func (r *Record) Sequence() int        { return r.sequence }
func (r *Record) CreatedAt() time.Time { return r.createdAt }
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

func (r *Record) SetID(id string)          { r.id = id }
func (r *Record) SetSequence(seq int)      { r.sequence = seq }
func (r *Record) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *Record) SetUpdatedAt(t time.Time) { r.updatedAt = t }

// NewRecord initializes a Record with both timestamps set to now.
func NewRecord() Record {
	now := time.Now().UTC()
	return Record{createdAt: now, updatedAt: now}
}
