package epochs

import (
	"context"

	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound before the first Set.
	Get(ctx context.Context) (*models.Epoch, error)
	Set(ctx context.Context, epoch *models.Epoch) error
}
