package flips

import (
	"context"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
)

// Repository stores sealed flip records.
type Repository interface {
	// Save inserts a record or replaces an existing one with the same ID.
	Save(ctx context.Context, r models.FlipRecord) error

	// List returns all records, oldest first.
	List(ctx context.Context) ([]models.FlipRecord, error)

	// Get returns common.ErrorNotFound when no record has the given ID.
	Get(ctx context.Context, id string) (models.FlipRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
}
