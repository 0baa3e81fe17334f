package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/cryptox"
	"github.com/dmitrijs2005/flipkeeper/internal/dbx"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/repomanager"
	"github.com/dmitrijs2005/flipkeeper/internal/node/storage"
)

// IdentityView is what an identity sees about itself: its state, limits
// and the flips it published this epoch.
type IdentityView struct {
	Identity *models.Identity
	Epoch    int
	Flips    []string
	Keywords map[string][]models.Keyword
}

// storedFlip is the object written to storage for each flip.
type storedFlip struct {
	Payload []byte `json:"payload"`
	Nonce   []byte `json:"nonce"`
}

// FlipService indexes published flips and keeps their payloads in object
// storage.
type FlipService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	now         func() time.Time
}

func NewFlipService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore) *FlipService {
	return &FlipService{db: db, repomanager: m, store: store, now: time.Now}
}

// Identity returns the view for address.
func (s *FlipService) Identity(ctx context.Context, address string) (*IdentityView, error) {
	identity, err := s.repomanager.Identities(s.db).Get(ctx, address)
	if err != nil {
		return nil, err
	}
	epoch, err := currentEpoch(ctx, s.repomanager.Epochs(s.db))
	if err != nil {
		return nil, err
	}
	list, err := s.repomanager.Flips(s.db).ListByAuthor(ctx, address, epoch)
	if err != nil {
		return nil, fmt.Errorf("error listing flips: %w", err)
	}

	view := &IdentityView{Identity: identity, Epoch: epoch, Flips: make([]string, 0, len(list))}
	for _, f := range list {
		view.Flips = append(view.Flips, f.Hash)
		if words := Keywords(f.Pair); words != nil {
			if view.Keywords == nil {
				view.Keywords = make(map[string][]models.Keyword)
			}
			view.Keywords[f.Hash] = words
		}
	}
	return view, nil
}

// Submit stores a sealed flip for address and returns its hash. Submitting
// the same payload twice returns the existing hash.
func (s *FlipService) Submit(ctx context.Context, address string, payload, nonce []byte, pair *[2]int) (string, error) {
	if len(payload) == 0 || !validPair(pair) {
		return "", common.ErrorInvalidFlip
	}
	hash := cryptox.FlipHash(payload)

	body, err := json.Marshal(storedFlip{Payload: payload, Nonce: nonce})
	if err != nil {
		return "", common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		identity, err := s.repomanager.Identities(tx).Get(ctx, address)
		if err != nil {
			return err
		}
		if !identity.State.CanSubmitFlips() {
			return common.ErrorCannotSubmitFlips
		}

		epoch, err := currentEpoch(ctx, s.repomanager.Epochs(tx))
		if err != nil {
			return err
		}

		repo := s.repomanager.Flips(tx)
		n, err := repo.CountByAuthor(ctx, address, epoch)
		if err != nil {
			return fmt.Errorf("error counting flips: %w", err)
		}
		if n >= identity.AvailableFlips {
			return common.ErrorFlipLimitReached
		}

		flip := &models.Flip{
			Hash:       hash,
			Author:     address,
			Epoch:      epoch,
			Pair:       pair,
			StorageKey: fmt.Sprintf("flips/%d/%s", epoch, hash),
			Size:       len(payload),
			CreatedAt:  s.now(),
		}
		if err := repo.Create(ctx, flip); err != nil {
			return err
		}
		return s.store.Put(ctx, flip.StorageKey, body)
	})

	if errors.Is(err, common.ErrorAlreadyExists) {
		existing, getErr := s.repomanager.Flips(s.db).Get(ctx, hash)
		if getErr != nil {
			return "", fmt.Errorf("error searching flip: %w", getErr)
		}
		if existing.Author != address {
			return "", common.ErrorAlreadyExists
		}
		return hash, nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Payload returns the sealed payload and nonce of a flip.
func (s *FlipService) Payload(ctx context.Context, hash string) (payload, nonce []byte, err error) {
	flip, err := s.repomanager.Flips(s.db).Get(ctx, hash)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.store.Get(ctx, flip.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	var sf storedFlip
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, nil, fmt.Errorf("error decoding flip: %w", err)
	}
	return sf.Payload, sf.Nonce, nil
}

// Delete removes address's flip. Unknown hashes yield common.ErrorNotFound
// and flips of other authors common.ErrorForbidden.
func (s *FlipService) Delete(ctx context.Context, address, hash string) error {
	var key string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Flips(tx)
		flip, err := repo.Get(ctx, hash)
		if err != nil {
			return err
		}
		if flip.Author != address {
			return common.ErrorForbidden
		}
		key = flip.StorageKey
		return repo.Delete(ctx, hash)
	})
	if err != nil {
		return err
	}

	// The index row is gone; a stale object is harmless.
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error deleting flip payload: %w", err)
	}
	return nil
}
