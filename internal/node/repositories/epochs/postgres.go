// Package epochs keeps the node's single current-epoch row.
package epochs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/dbx"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.Epoch, error) {
	item := &models.Epoch{}
	err := r.db.QueryRowContext(ctx, `SELECT epoch, next_validation FROM epochs WHERE id = 1`).
		Scan(&item.Epoch, &item.NextValidation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Set(ctx context.Context, epoch *models.Epoch) error {
	query := `
		INSERT INTO epochs (id, epoch, next_validation)
		VALUES (1, $1, $2)
		ON CONFLICT (id)
		DO UPDATE SET epoch = EXCLUDED.epoch, next_validation = EXCLUDED.next_validation`

	if _, err := r.db.ExecContext(ctx, query, epoch.Epoch, epoch.NextValidation); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
