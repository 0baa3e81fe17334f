package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/repomanager"
)

// IdentityService lets operators inspect and change identity states and
// flip limits.
type IdentityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager) *IdentityService {
	return &IdentityService{db: db, repomanager: m, now: time.Now}
}

func (s *IdentityService) Get(ctx context.Context, address string) (*models.Identity, error) {
	return s.repomanager.Identities(s.db).Get(ctx, address)
}

// Update replaces the identity's state and limits, creating it if needed.
func (s *IdentityService) Update(ctx context.Context, address, state string, required, available int) (*models.Identity, error) {
	st, err := models.ParseIdentityState(state)
	if err != nil {
		return nil, err
	}
	if required < 0 || available < 0 {
		return nil, fmt.Errorf("flip limits must not be negative")
	}

	identity := &models.Identity{
		Address:        address,
		State:          st,
		RequiredFlips:  required,
		AvailableFlips: available,
		UpdatedAt:      s.now(),
	}
	if err := s.repomanager.Identities(s.db).Upsert(ctx, identity); err != nil {
		return nil, fmt.Errorf("error updating identity: %w", err)
	}
	return identity, nil
}
