// package models defines the data model for the media metadata store
package models

import (
	"time"
)

// Sentinel values written for descriptive fields that could not be extracted.
// Absent fields are always written as sentinels, never omitted, so enriched
// records are uniformly non-null.
const (
	UnknownString         = "unknown"
	UnknownInteger  int64 = -1
)

// Model defines the base interface for all persistent models in the media store.
type Model interface {
	ID() int64            // ID returns the store-assigned identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id int64) (T, error)                   // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id int64) error                     // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}
