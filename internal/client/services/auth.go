// Package services contains the client's application services: the
// identity key lifecycle, the adapters that connect the flip list to local
// storage and the node, and the watcher that feeds node facts into it.
package services

import (
	"context"
	"crypto/ed25519"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flipkeeper/internal/client/client"
	"github.com/dmitrijs2005/flipkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/cryptox"
	"github.com/dmitrijs2005/flipkeeper/internal/dbx"
)

const (
	keySaltKey     = "keySalt"
	keyVerifierKey = "keyVerifier"
	sealedKeyKey   = "sealedKey"
	keyNonceKey    = "sealedKeyNonce"
)

var (
	ErrNoKey         = errors.New("no identity key stored")
	ErrKeyExists     = errors.New("identity key already stored")
	ErrWrongPassword = errors.New("wrong password")
)

// AuthService manages the identity key. The key is stored sealed with a
// key derived from the user's password and is only held in memory after
// Unlock.
type AuthService interface {
	HasKey(ctx context.Context) (bool, error)
	// CreateKey generates a new identity key and stores it sealed.
	CreateKey(ctx context.Context, password []byte) (ed25519.PrivateKey, error)
	// ImportKey stores an existing key (64 raw bytes) sealed.
	ImportKey(ctx context.Context, password []byte, raw []byte) (ed25519.PrivateKey, error)
	Unlock(ctx context.Context, password []byte) (ed25519.PrivateKey, error)
	// SignIn opens a node session for key.
	SignIn(ctx context.Context, key ed25519.PrivateKey) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	// Forget removes the stored key.
	Forget(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) HasKey(ctx context.Context) (bool, error) {
	sealed, err := a.getMetadataRepo(a.db).Get(ctx, sealedKeyKey)
	if err != nil {
		return false, err
	}
	return len(sealed) > 0, nil
}

func (a *authService) CreateKey(ctx context.Context, password []byte) (ed25519.PrivateKey, error) {
	_, priv, err := cryptox.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := a.storeKey(ctx, password, priv); err != nil {
		return nil, err
	}
	return priv, nil
}

func (a *authService) ImportKey(ctx context.Context, password []byte, raw []byte) (ed25519.PrivateKey, error) {
	priv, err := cryptox.ParsePrivateKey(raw)
	if err != nil {
		return nil, err
	}
	if err := a.storeKey(ctx, password, priv); err != nil {
		return nil, err
	}
	return priv, nil
}

// storeKey seals priv and saves salt, verifier and ciphertext in one
// transaction.
func (a *authService) storeKey(ctx context.Context, password []byte, priv ed25519.PrivateKey) error {
	exists, err := a.HasKey(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrKeyExists
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	masterKey := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(masterKey)

	sealed, nonce, err := cryptox.Seal(priv, masterKey)
	if err != nil {
		return fmt.Errorf("seal key: %w", err)
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		for k, v := range map[string][]byte{
			keySaltKey:     salt,
			keyVerifierKey: cryptox.MakeVerifier(masterKey),
			sealedKeyKey:   sealed,
			keyNonceKey:    nonce,
		} {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *authService) Unlock(ctx context.Context, password []byte) (ed25519.PrivateKey, error) {
	repo := a.getMetadataRepo(a.db)

	values := make(map[string][]byte, 4)
	for _, k := range []string{keySaltKey, keyVerifierKey, sealedKeyKey, keyNonceKey} {
		v, err := repo.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if len(v) == 0 {
			return nil, ErrNoKey
		}
		values[k] = v
	}

	masterKey := cryptox.DeriveMasterKey(password, values[keySaltKey])
	defer common.WipeByteArray(masterKey)

	if subtle.ConstantTimeCompare(values[keyVerifierKey], cryptox.MakeVerifier(masterKey)) == 0 {
		return nil, ErrWrongPassword
	}

	raw, err := cryptox.Open(values[sealedKeyKey], values[keyNonceKey], masterKey)
	if err != nil {
		return nil, fmt.Errorf("open key: %w", err)
	}
	return cryptox.ParsePrivateKey(raw)
}

func (a *authService) SignIn(ctx context.Context, key ed25519.PrivateKey) error {
	if err := a.client.Authenticate(ctx, key); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

func (a *authService) Forget(ctx context.Context) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		for _, k := range []string{keySaltKey, keyVerifierKey, sealedKeyKey, keyNonceKey} {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}
