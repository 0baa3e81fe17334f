// Package identities stores the node's identity records in Postgres.
package identities

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

func (r *PostgresRepository) Get(ctx context.Context, address string) (*models.Identity, error) {
	query := `SELECT address, state, required_flips, available_flips, updated_at
		FROM identities WHERE address = $1`

	item := &models.Identity{}
	err := r.db.QueryRowContext(ctx, query, address).
		Scan(&item.Address, &item.State, &item.RequiredFlips, &item.AvailableFlips, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, identity *models.Identity) error {
	query := `
		INSERT INTO identities (address, state, required_flips, available_flips, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (address)
		DO UPDATE SET
			state = EXCLUDED.state,
			required_flips = EXCLUDED.required_flips,
			available_flips = EXCLUDED.available_flips,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		identity.Address, identity.State, identity.RequiredFlips, identity.AvailableFlips, identity.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
