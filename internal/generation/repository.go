package generation

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a generation cannot be found by ID.
var ErrNotFound = errors.New("generation not found")

// Repository defines the interface for generation persistence.
type Repository interface {
	// Save persists a generation. Existing generations are updated.
	Save(ctx context.Context, gen *Generation) error

	// FindByID retrieves a generation by its unique identifier.
	// Returns ErrNotFound if the generation does not exist.
	FindByID(ctx context.Context, id string) (*Generation, error)

	// List returns all generations.
	List(ctx context.Context) ([]*Generation, error)

	// Delete removes a generation from storage.
	// Returns ErrNotFound if the generation does not exist.
	Delete(ctx context.Context, id string) error
}
