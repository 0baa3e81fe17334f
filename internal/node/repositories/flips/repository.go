package flips

import (
	"context"

	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
)

type Repository interface {
	// Create returns common.ErrorAlreadyExists when the hash is indexed.
	Create(ctx context.Context, flip *models.Flip) error
	// Get returns common.ErrorNotFound for unknown hashes.
	Get(ctx context.Context, hash string) (*models.Flip, error)
	// ListByAuthor returns the author's flips for an epoch, oldest first.
	ListByAuthor(ctx context.Context, author string, epoch int) ([]*models.Flip, error)
	CountByAuthor(ctx context.Context, author string, epoch int) (int, error)
	// Delete returns common.ErrorNotFound when nothing was removed.
	Delete(ctx context.Context, hash string) error
}
