// Package flips is the node's Postgres index of published flips.
package flips

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

func (r *PostgresRepository) Create(ctx context.Context, flip *models.Flip) error {
	query := `
		INSERT INTO flips (hash, author, epoch, pair_first, pair_second, storage_key, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (hash) DO NOTHING`

	first, second := pairArgs(flip.Pair)
	res, err := r.db.ExecContext(ctx, query,
		flip.Hash, flip.Author, flip.Epoch, first, second, flip.StorageKey, flip.Size, flip.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectOneRow(res); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorAlreadyExists
		}
		return err
	}
	return nil
}

const selectColumns = `SELECT hash, author, epoch, pair_first, pair_second, storage_key, size, created_at FROM flips`

type scanner interface {
	Scan(dest ...any) error
}

func scanFlip(s scanner) (*models.Flip, error) {
	var (
		item          models.Flip
		first, second sql.NullInt64
	)
	if err := s.Scan(&item.Hash, &item.Author, &item.Epoch, &first, &second, &item.StorageKey, &item.Size, &item.CreatedAt); err != nil {
		return nil, err
	}
	if first.Valid && second.Valid {
		item.Pair = &[2]int{int(first.Int64), int(second.Int64)}
	}
	return &item, nil
}

func pairArgs(p *[2]int) (sql.NullInt64, sql.NullInt64) {
	if p == nil {
		return sql.NullInt64{}, sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(p[0]), Valid: true}, sql.NullInt64{Int64: int64(p[1]), Valid: true}
}

func (r *PostgresRepository) Get(ctx context.Context, hash string) (*models.Flip, error) {
	item, err := scanFlip(r.db.QueryRowContext(ctx, selectColumns+` WHERE hash = $1`, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, author string, epoch int) ([]*models.Flip, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE author = $1 AND epoch = $2 ORDER BY created_at, hash`, author, epoch)
	if err != nil {
		return nil, fmt.Errorf("failed to select flips: %w", err)
	}
	defer rows.Close()

	var result []*models.Flip
	for rows.Next() {
		item, err := scanFlip(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, author string, epoch int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM flips WHERE author = $1 AND epoch = $2`, author, epoch).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, hash string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flips WHERE hash = $1`, hash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
