package services

import (
	"context"
	"crypto/ed25519"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/client/client"
	"github.com/dmitrijs2005/flipkeeper/internal/client/flips"
	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/logging"
)

// EventSink receives flip list events; *flips.Orchestrator satisfies it.
type EventSink interface {
	Send(ev flips.Event) bool
}

// HostWatcher polls the node for the epoch and the identity and sends
// Initialize whenever the host context is complete and something the flip
// list depends on has changed.
type HostWatcher struct {
	client   client.Client
	sink     EventSink
	interval time.Duration
	logger   logging.Logger

	mu       sync.RWMutex
	key      ed25519.PrivateKey
	identity models.Identity
	epoch    *models.Epoch
	sent     *hostFacts
}

type hostFacts struct {
	epoch     int
	key       string
	status    models.IdentityStatus
	canSubmit bool
	flips     []string
}

func (f hostFacts) equal(o hostFacts) bool {
	return f.epoch == o.epoch && f.key == o.key && f.status == o.status &&
		f.canSubmit == o.canSubmit && slices.Equal(f.flips, o.flips)
}

func NewHostWatcher(c client.Client, sink EventSink, interval time.Duration, logger logging.Logger) *HostWatcher {
	return &HostWatcher{
		client:   c,
		sink:     sink,
		interval: interval,
		logger:   logger.With("module", "host_watcher"),
	}
}

// SetKey makes the unlocked identity key available and re-evaluates the
// host context.
func (w *HostWatcher) SetKey(ctx context.Context, key ed25519.PrivateKey) {
	w.mu.Lock()
	w.key = key
	w.mu.Unlock()
	w.maybeInitialize(ctx)
}

// Identity returns the last identity reported by the node.
func (w *HostWatcher) Identity() models.Identity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.identity
}

// Epoch returns the last epoch reported by the node.
func (w *HostWatcher) Epoch() (models.Epoch, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.epoch == nil {
		return models.Epoch{}, false
	}
	return *w.epoch, true
}

// Run polls until ctx is done.
func (w *HostWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.Poll(ctx); err != nil {
			w.logger.Warn(ctx, "poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll refreshes the epoch and the identity once.
func (w *HostWatcher) Poll(ctx context.Context) error {
	epoch, err := w.client.Epoch(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.epoch = &epoch
	signedIn := w.key != nil
	w.mu.Unlock()

	if signedIn {
		identity, err := w.client.Identity(ctx)
		if err != nil {
			return err
		}
		w.mu.Lock()
		w.identity = identity
		w.mu.Unlock()
	}

	w.maybeInitialize(ctx)
	return nil
}

func (w *HostWatcher) maybeInitialize(ctx context.Context) {
	w.mu.Lock()
	if w.epoch == nil || w.key == nil || w.identity.State == "" {
		w.mu.Unlock()
		return
	}
	facts := hostFacts{
		epoch:     w.epoch.Epoch,
		key:       string(w.key.Public().(ed25519.PublicKey)),
		status:    w.identity.State,
		canSubmit: w.identity.State.CanSubmitFlips(),
		flips:     slices.Clone(w.identity.Flips),
	}
	if w.sent != nil && w.sent.equal(facts) {
		w.mu.Unlock()
		return
	}
	w.sent = &facts
	ev := flips.Initialize{
		Epoch:          w.epoch.Epoch,
		PrivateKey:     w.key,
		CanSubmitFlips: facts.canSubmit,
		KnownFlips:     slices.Clone(w.identity.Flips),
		Keywords:       w.identity.Keywords,
	}
	w.mu.Unlock()

	w.logger.Debug(ctx, "host context changed", "epoch", facts.epoch, "status", facts.status)
	w.sink.Send(ev)
}
