package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/dbx"
	"github.com/dmitrijs2005/flipkeeper/internal/node/config"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/epochs"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/flips"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/identities"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	return cfg
}

// fakeStore is an in-memory node state shared by the fake repositories.
type fakeStore struct {
	mu         sync.Mutex
	identities map[string]models.Identity
	flips      map[string]models.Flip
	epoch      *models.Epoch

	getIdentityErr error
	upsertErr      error
	createFlipErr  error
	epochErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{identities: map[string]models.Identity{}, flips: map[string]models.Flip{}}
}

type fakeIdentities struct{ s *fakeStore }

func (f fakeIdentities) Get(_ context.Context, address string) (*models.Identity, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.getIdentityErr != nil {
		return nil, f.s.getIdentityErr
	}
	id, ok := f.s.identities[address]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &id, nil
}

func (f fakeIdentities) Upsert(_ context.Context, identity *models.Identity) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.upsertErr != nil {
		return f.s.upsertErr
	}
	f.s.identities[identity.Address] = *identity
	return nil
}

type fakeFlips struct{ s *fakeStore }

func (f fakeFlips) Create(_ context.Context, flip *models.Flip) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createFlipErr != nil {
		return f.s.createFlipErr
	}
	if _, ok := f.s.flips[flip.Hash]; ok {
		return common.ErrorAlreadyExists
	}
	f.s.flips[flip.Hash] = *flip
	return nil
}

func (f fakeFlips) Get(_ context.Context, hash string) (*models.Flip, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	fl, ok := f.s.flips[hash]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &fl, nil
}

func (f fakeFlips) ListByAuthor(_ context.Context, author string, epoch int) ([]*models.Flip, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Flip
	for _, fl := range f.s.flips {
		if fl.Author == author && fl.Epoch == epoch {
			fl := fl
			out = append(out, &fl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out, nil
}

func (f fakeFlips) CountByAuthor(ctx context.Context, author string, epoch int) (int, error) {
	list, err := f.ListByAuthor(ctx, author, epoch)
	return len(list), err
}

func (f fakeFlips) Delete(_ context.Context, hash string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.flips[hash]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.flips, hash)
	return nil
}

type fakeEpochs struct{ s *fakeStore }

func (f fakeEpochs) Get(context.Context) (*models.Epoch, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.epochErr != nil {
		return nil, f.s.epochErr
	}
	if f.s.epoch == nil {
		return nil, common.ErrorNotFound
	}
	e := *f.s.epoch
	return &e, nil
}

func (f fakeEpochs) Set(_ context.Context, e *models.Epoch) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *e
	f.s.epoch = &cp
	return nil
}

type fakeRepoManager struct{ s *fakeStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Identities(dbx.DBTX) identities.Repository    { return fakeIdentities{m.s} }
func (m *fakeRepoManager) Flips(dbx.DBTX) flips.Repository              { return fakeFlips{m.s} }
func (m *fakeRepoManager) Epochs(dbx.DBTX) epochs.Repository            { return fakeEpochs{m.s} }
