package identities

import (
	"context"

	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound for unknown addresses.
	Get(ctx context.Context, address string) (*models.Identity, error)
	// Upsert creates the identity or replaces its state and flip limits.
	Upsert(ctx context.Context, identity *models.Identity) error
}
