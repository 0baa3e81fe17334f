package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/dbx"
	"github.com/dmitrijs2005/flipkeeper/internal/node/config"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/epochs"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/repomanager"
)

// EpochService tracks the validation epoch.
type EpochService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	epochDuration time.Duration
	now           func() time.Time
}

func NewEpochService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *EpochService {
	return &EpochService{db: db, repomanager: m, epochDuration: cfg.EpochDuration, now: time.Now}
}

// Current returns the epoch, starting epoch 0 on first use.
func (s *EpochService) Current(ctx context.Context) (*models.Epoch, error) {
	repo := s.repomanager.Epochs(s.db)
	e, err := repo.Get(ctx)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error reading epoch: %w", err)
	}

	e = &models.Epoch{Epoch: 0, NextValidation: s.now().Add(s.epochDuration)}
	if err := repo.Set(ctx, e); err != nil {
		return nil, fmt.Errorf("error starting epoch: %w", err)
	}
	return e, nil
}

// Advance moves to the next epoch. Flips of earlier epochs stay indexed but
// no longer count towards identity limits.
func (s *EpochService) Advance(ctx context.Context) (*models.Epoch, error) {
	var next *models.Epoch
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Epochs(tx)
		cur, err := currentEpoch(ctx, repo)
		if err != nil {
			return err
		}
		next = &models.Epoch{Epoch: cur + 1, NextValidation: s.now().Add(s.epochDuration)}
		if err := repo.Set(ctx, next); err != nil {
			return fmt.Errorf("error advancing epoch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// currentEpoch returns the stored epoch number, or 0 before the first one is
// recorded.
func currentEpoch(ctx context.Context, repo epochs.Repository) (int, error) {
	e, err := repo.Get(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading epoch: %w", err)
	}
	return e.Epoch, nil
}
