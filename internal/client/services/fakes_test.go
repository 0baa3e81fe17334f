package services

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/flipkeeper/internal/client/client"
	"github.com/dmitrijs2005/flipkeeper/internal/client/flips"
	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/rpc"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements client.Client.
type fakeClient struct {
	mu sync.Mutex

	PingErr   error
	AuthErr   error
	CloseErr  error
	Ident     models.Identity
	IdentErr  error
	Ep        models.Epoch
	EpErr     error
	SubmitRet string
	SubmitErr error
	DeleteErr error

	AuthKey       ed25519.PrivateKey
	LastSubmit    rpc.SubmitFlipRequest
	LastDelete    string
	IdentityCalls int
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error                   { return f.CloseErr }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Authenticate(_ context.Context, key ed25519.PrivateKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AuthErr != nil {
		return f.AuthErr
	}
	f.AuthKey = key
	return nil
}

func (f *fakeClient) Identity(context.Context) (models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.IdentityCalls++
	return f.Ident, f.IdentErr
}

func (f *fakeClient) Epoch(context.Context) (models.Epoch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Ep, f.EpErr
}

func (f *fakeClient) SubmitFlip(_ context.Context, req rpc.SubmitFlipRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastSubmit = req
	return f.SubmitRet, f.SubmitErr
}

func (f *fakeClient) DeleteFlip(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastDelete = hash
	return f.DeleteErr
}

func (f *fakeClient) setIdentity(id models.Identity) {
	f.mu.Lock()
	f.Ident = id
	f.mu.Unlock()
}

func (f *fakeClient) setEpoch(e models.Epoch) {
	f.mu.Lock()
	f.Ep = e
	f.mu.Unlock()
}

type recordingSink struct {
	mu     sync.Mutex
	events []flips.Event
}

func (s *recordingSink) Send(ev flips.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return true
}

func (s *recordingSink) initializes() []flips.Initialize {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []flips.Initialize
	for _, ev := range s.events {
		if init, ok := ev.(flips.Initialize); ok {
			out = append(out, init)
		}
	}
	return out
}

func testKey(seed byte) ed25519.PrivateKey {
	s := make([]byte, ed25519.SeedSize)
	s[0] = seed
	return ed25519.NewKeyFromSeed(s)
}
