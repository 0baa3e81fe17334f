package client

import (
	"context"
	"crypto/ed25519"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/rpc"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	// Authenticate signs in with the identity key. The key is kept so the
	// client can sign in again when the session expires.
	Authenticate(ctx context.Context, key ed25519.PrivateKey) error
	Identity(ctx context.Context) (models.Identity, error)
	Epoch(ctx context.Context) (models.Epoch, error)
	SubmitFlip(ctx context.Context, req rpc.SubmitFlipRequest) (string, error)
	DeleteFlip(ctx context.Context, hash string) error
}
