package flips

import (
	"context"
	"crypto/ed25519"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
)

// Store persists local flips. Payloads are sealed with a key derived from
// the identity key, so every read and write takes it.
type Store interface {
	LoadFlips(ctx context.Context, key ed25519.PrivateKey) ([]models.Flip, error)
	SaveFlip(ctx context.Context, key ed25519.PrivateKey, flip models.Flip) error
	DeleteFlip(ctx context.Context, id string) error
}

// Network is the node side of a flip's lifecycle.
type Network interface {
	// SubmitFlip publishes the flip and returns its content hash.
	SubmitFlip(ctx context.Context, key ed25519.PrivateKey, flip models.Flip) (string, error)
	DeleteFlip(ctx context.Context, hash string) error
}

// Preferences is a small key-value store for UI choices.
type Preferences interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Notifier surfaces an error message to the user.
type Notifier interface {
	NotifyError(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) NotifyError(ctx context.Context, message string) {
	f(ctx, message)
}
