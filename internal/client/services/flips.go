package services

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/client/client"
	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	fliprepo "github.com/dmitrijs2005/flipkeeper/internal/client/repositories/flips"
	"github.com/dmitrijs2005/flipkeeper/internal/cryptox"
	"github.com/dmitrijs2005/flipkeeper/internal/logging"
	"github.com/dmitrijs2005/flipkeeper/internal/rpc"
)

// FlipStore keeps flips in the local repository with their images sealed
// under the identity's flip key.
type FlipStore struct {
	repo   fliprepo.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewFlipStore(repo fliprepo.Repository, logger logging.Logger) *FlipStore {
	return &FlipStore{repo: repo, logger: logger, now: time.Now}
}

// LoadFlips returns every stored flip that opens under key. Records that
// do not decrypt are logged and left out so one bad row does not hide the
// rest of the list.

func (s *FlipStore) LoadFlips(ctx context.Context, key ed25519.PrivateKey) ([]models.Flip, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	flipKey := cryptox.FlipKey(key)
	result := make([]models.Flip, 0, len(records))
	for _, r := range records {
		var content models.FlipContent
		if err := cryptox.DecryptJSON(r.Payload, r.Nonce, flipKey, &content); err != nil {
			s.logger.Warn(ctx, "skipping unreadable flip", "id", r.ID, "error", err)
			continue
		}
		result = append(result, models.Flip{
			ID:            r.ID,
			Hash:          r.Hash,
			Type:          r.Type,
			Keywords:      r.Pair,
			Images:        content.Images,
			OriginalOrder: content.OriginalOrder,
			CreatedAt:     r.CreatedAt,
		})
	}
	return result, nil
}

func (s *FlipStore) SaveFlip(ctx context.Context, key ed25519.PrivateKey, f models.Flip) error {
	payload, nonce, err := sealFlip(key, f)
	if err != nil {
		return err
	}
	created := f.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	return s.repo.Save(ctx, models.FlipRecord{
		ID:        f.ID,
		Hash:      f.Hash,
		Type:      f.Type,
		Pair:      f.Keywords,
		Payload:   payload,
		Nonce:     nonce,
		CreatedAt: created,
		UpdatedAt: s.now(),
	})
}

func (s *FlipStore) DeleteFlip(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// FlipGateway publishes and deletes flips on the node.
type FlipGateway struct {
	client client.Client
}

func NewFlipGateway(c client.Client) *FlipGateway {
	return &FlipGateway{client: c}
}

func (g *FlipGateway) SubmitFlip(ctx context.Context, key ed25519.PrivateKey, f models.Flip) (string, error) {
	payload, nonce, err := sealFlip(key, f)
	if err != nil {
		return "", err
	}
	req := rpc.SubmitFlipRequest{Payload: payload, Nonce: nonce}
	if f.Keywords != nil {
		pair := [2]int(*f.Keywords)
		req.Pair = &pair
	}
	return g.client.SubmitFlip(ctx, req)
}

func (g *FlipGateway) DeleteFlip(ctx context.Context, hash string) error {
	return g.client.DeleteFlip(ctx, hash)
}

func sealFlip(key ed25519.PrivateKey, f models.Flip) (payload, nonce []byte, err error) {
	content := models.FlipContent{Images: f.Images, OriginalOrder: f.OriginalOrder}
	payload, nonce, err = cryptox.EncryptJSON(content, cryptox.FlipKey(key))
	if err != nil {
		return nil, nil, fmt.Errorf("seal flip %s: %w", f.ID, err)
	}
	return payload, nonce, nil
}
