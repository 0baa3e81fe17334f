// Package services contains the node's business logic: signing identities
// in, indexing and storing flips, and tracking the validation epoch.
package services

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/cryptox"
	"github.com/dmitrijs2005/flipkeeper/internal/node/auth"
	"github.com/dmitrijs2005/flipkeeper/internal/node/config"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/repomanager"
)

// MaxClockSkew bounds how far a signed auth timestamp may drift from the
// node clock.
const MaxClockSkew = 5 * time.Minute

// Session is an issued access token.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService signs identities in by verifying an ed25519 signature over
// the auth challenge. Unknown addresses are registered with the configured
// defaults.
type AuthService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	defaults                    models.Identity
	now                         func() time.Time
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		defaults: models.Identity{
			State:          models.IdentityState(cfg.DefaultIdentityState),
			RequiredFlips:  cfg.DefaultRequiredFlips,
			AvailableFlips: cfg.DefaultAvailableFlips,
		},
		now: time.Now,
	}
}

// Authenticate verifies the signed challenge and returns a session for
// address. Any verification failure yields common.ErrorUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, address string, pub ed25519.PublicKey, timestamp int64, signature []byte) (*Session, error) {
	now := s.now()
	signedAt := time.Unix(timestamp, 0)
	if signedAt.Before(now.Add(-MaxClockSkew)) || signedAt.After(now.Add(MaxClockSkew)) {
		return nil, common.ErrorUnauthorized
	}
	if !cryptox.VerifyAuth(pub, address, timestamp, signature) {
		return nil, common.ErrorUnauthorized
	}

	if err := s.ensureIdentity(ctx, address); err != nil {
		return nil, err
	}

	expiresAt := now.Add(s.accessTokenValidityDuration)
	token, err := auth.GenerateToken(address, s.jwtSecret, expiresAt)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) ensureIdentity(ctx context.Context, address string) error {
	repo := s.repomanager.Identities(s.db)
	_, err := repo.Get(ctx, address)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error searching identity: %w", err)
	}

	identity := s.defaults
	identity.Address = address
	identity.UpdatedAt = s.now()
	if err := repo.Upsert(ctx, &identity); err != nil {
		return fmt.Errorf("error creating identity: %w", err)
	}
	return nil
}
