package grpc

import (
	"context"
	"crypto/ed25519"
	"sync"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/cryptox"
	"github.com/dmitrijs2005/flipkeeper/internal/logging"
	"github.com/dmitrijs2005/flipkeeper/internal/node/auth"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
	"github.com/dmitrijs2005/flipkeeper/internal/node/services"
)

const testSecret = "secret"

// fakeAuth verifies signatures like the real service and issues tokens
// with the queued lifetimes, then one hour.
type fakeAuth struct {
	mu        sync.Mutex
	lifetimes []time.Duration
	calls     int
	err       error
}

func (f *fakeAuth) Authenticate(_ context.Context, address string, pub ed25519.PublicKey, ts int64, sig []byte) (*services.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if !cryptox.VerifyAuth(pub, address, ts, sig) {
		return nil, common.ErrorUnauthorized
	}
	lifetime := time.Hour
	if len(f.lifetimes) > 0 {
		lifetime, f.lifetimes = f.lifetimes[0], f.lifetimes[1:]
	}
	exp := time.Now().Add(lifetime)
	tok, err := auth.GenerateToken(address, []byte(testSecret), exp)
	if err != nil {
		return nil, err
	}
	return &services.Session{AccessToken: tok, ExpiresAt: exp}, nil
}

func (f *fakeAuth) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeFlips struct {
	mu        sync.Mutex
	view      *services.IdentityView
	viewErr   error
	submitErr error
	deleteErr error

	lastAddress string
	lastPayload []byte
	lastPair    *[2]int
	deleted     []string
}

func (f *fakeFlips) Identity(_ context.Context, address string) (*services.IdentityView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAddress = address
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return f.view, nil
}

func (f *fakeFlips) Submit(_ context.Context, address string, payload, _ []byte, pair *[2]int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAddress = address
	f.lastPayload = payload
	f.lastPair = pair
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return cryptox.FlipHash(payload), nil
}

func (f *fakeFlips) Delete(_ context.Context, address, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAddress = address
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, hash)
	return nil
}

type fakeEpochs struct {
	epoch *models.Epoch
	err   error
}

func (f *fakeEpochs) Current(context.Context) (*models.Epoch, error) {
	return f.epoch, f.err
}

func newTestServer() (*GRPCServer, *fakeAuth, *fakeFlips, *fakeEpochs) {
	a := &fakeAuth{}
	f := &fakeFlips{}
	e := &fakeEpochs{epoch: &models.Epoch{Epoch: 7, NextValidation: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}}
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, a, f, e, testSecret), a, f, e
}
