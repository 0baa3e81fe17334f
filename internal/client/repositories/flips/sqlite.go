// Package flips persists sealed flips in the client's SQLite database.
package flips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, f models.FlipRecord) error {
	var first, second sql.NullInt64
	if f.Pair != nil {
		first = sql.NullInt64{Int64: int64(f.Pair[0]), Valid: true}
		second = sql.NullInt64{Int64: int64(f.Pair[1]), Valid: true}
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = time.Now()
	}

	query := `INSERT INTO flips (id, hash, type, pair_first, pair_second, payload, nonce, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET hash = excluded.hash,
			type = excluded.type,
			pair_first = excluded.pair_first,
			pair_second = excluded.pair_second,
			payload = excluded.payload,
			nonce = excluded.nonce,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.Hash, string(f.Type), first, second, f.Payload, f.Nonce,
		f.CreatedAt.UnixMilli(), f.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save flip %s: %w", f.ID, err)
	}
	return nil
}

const selectColumns = `select id, hash, type, pair_first, pair_second, payload, nonce, created_at, updated_at from flips`

func (r *SQLiteRepository) List(ctx context.Context) ([]models.FlipRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` order by created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select flips: %w", err)
	}
	defer rows.Close()

	var result []models.FlipRecord
	for rows.Next() {
		f, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flips: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.FlipRecord, error) {
	f, err := scan(r.db.QueryRowContext(ctx, selectColumns+` where id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.FlipRecord{}, fmt.Errorf("flip %s: %w", id, common.ErrorNotFound)
	}
	return f, err
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `delete from flips where id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete flip %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (models.FlipRecord, error) {
	var (
		f                models.FlipRecord
		typ              string
		first, second    sql.NullInt64
		created, updated int64
	)
	if err := s.Scan(&f.ID, &f.Hash, &typ, &first, &second, &f.Payload, &f.Nonce, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return f, err
		}
		return f, fmt.Errorf("failed to scan flip: %w", err)
	}
	f.Type = models.FlipType(typ)
	if first.Valid && second.Valid {
		f.Pair = &models.KeywordPair{int(first.Int64), int(second.Int64)}
	}
	f.CreatedAt = time.UnixMilli(created)
	f.UpdatedAt = time.UnixMilli(updated)
	return f, nil
}
