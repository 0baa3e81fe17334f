package flips

import (
	"context"
	"crypto/ed25519"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
)

type fakeStore struct {
	mu      sync.Mutex
	flips   map[string]models.Flip
	order   []string
	loadErr error
	saveErr error
	delErr  error
	loads   atomic.Int32
	// saveGate, when set, blocks SaveFlip until closed
	saveGate chan struct{}
}

func newFakeStore(flips ...models.Flip) *fakeStore {
	s := &fakeStore{flips: make(map[string]models.Flip)}
	for _, f := range flips {
		s.flips[f.ID] = f
		s.order = append(s.order, f.ID)
	}
	return s
}

func (s *fakeStore) LoadFlips(_ context.Context, _ ed25519.PrivateKey) ([]models.Flip, error) {
	s.loads.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]models.Flip, 0, len(s.order))
	for _, id := range s.order {
		if f, ok := s.flips[id]; ok {
			out = append(out, f.Clone())
		}
	}
	return out, nil
}

func (s *fakeStore) SaveFlip(ctx context.Context, _ ed25519.PrivateKey, f models.Flip) error {
	if s.saveGate != nil {
		select {
		case <-s.saveGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.flips[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.flips[f.ID] = f.Clone()
	return nil
}

func (s *fakeStore) DeleteFlip(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.flips, id)
	return nil
}

func (s *fakeStore) get(id string) (models.Flip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flips[id]
	return f, ok
}

func (s *fakeStore) setLoadErr(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

func (s *fakeStore) setSaveErr(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

type fakeNetwork struct {
	hash      string
	submitErr error
	deleteErr error
	// gate, when set, blocks DeleteFlip until closed
	gate    chan struct{}
	submits atomic.Int32
	deletes atomic.Int32
}

func (n *fakeNetwork) SubmitFlip(_ context.Context, _ ed25519.PrivateKey, _ models.Flip) (string, error) {
	n.submits.Add(1)
	if n.submitErr != nil {
		return "", n.submitErr
	}
	return n.hash, nil
}

func (n *fakeNetwork) DeleteFlip(ctx context.Context, _ string) error {
	n.deletes.Add(1)
	if n.gate != nil {
		select {
		case <-n.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return n.deleteErr
}

type fakePrefs struct {
	mu     sync.Mutex
	values map[string][]byte
	setErr error
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{values: make(map[string][]byte)}
}

func (p *fakePrefs) Get(_ context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[key], nil
}

func (p *fakePrefs) Set(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.setErr != nil {
		return p.setErr
	}
	p.values[key] = value
	return nil
}

func (p *fakePrefs) get(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.values[key])
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) NotifyError(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingNotifier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// recordingParent stands in for the orchestrator in actor tests and
// records the flip type seen at every change.
type recordingParent struct {
	mu       sync.Mutex
	actor    *FlipActor
	types    []models.FlipType
	failures []error
	removed  []string
}

func (p *recordingParent) childChanged(string) {
	t := p.actor.View().Type
	p.mu.Lock()
	p.types = append(p.types, t)
	p.mu.Unlock()
}

func (p *recordingParent) childFailed(_ string, err error) {
	p.mu.Lock()
	p.failures = append(p.failures, err)
	p.mu.Unlock()
}

func (p *recordingParent) childRemoved(id string) {
	p.mu.Lock()
	p.removed = append(p.removed, id)
	p.mu.Unlock()
}

func (p *recordingParent) snapshot() (types []models.FlipType, failures []error, removed []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.FlipType(nil), p.types...),
		append([]error(nil), p.failures...),
		append([]string(nil), p.removed...)
}

func testKey() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
}

func publishedFlip(id, hash string) models.Flip {
	return models.Flip{
		ID:            id,
		Hash:          hash,
		Type:          models.FlipTypePublished,
		Images:        [][]byte{{1}, {2}},
		OriginalOrder: []int{0, 1},
	}
}

func draftFlip(id string) models.Flip {
	return models.Flip{
		ID:            id,
		Type:          models.FlipTypeDraft,
		Images:        [][]byte{{1}, {2}},
		OriginalOrder: []int{1, 0},
	}
}
