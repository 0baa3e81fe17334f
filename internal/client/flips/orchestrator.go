package flips

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/logging"
)

type Deps struct {
	Store       Store
	Network     Network
	Preferences Preferences
	Notifier    Notifier
	Logger      logging.Logger
}

// Orchestrator is the root of the flip list. Create it with
// NewOrchestrator and start it with Run.
type Orchestrator struct {
	store    Store
	network  Network
	prefs    Preferences
	notifier Notifier
	logger   logging.Logger

	mailbox *mailbox[Event]
	wg      sync.WaitGroup

	mu       sync.RWMutex
	state    orchestratorState
	registry *Registry

	subsMu  sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

func NewOrchestrator(d Deps) *Orchestrator {
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	notifier := d.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, string) {})
	}
	return &Orchestrator{
		store:    d.Store,
		network:  d.Network,
		prefs:    d.Preferences,
		notifier: notifier,
		logger:   logger.With("module", "flips"),
		mailbox:  newMailbox[Event](),
		state:    initialOrchestratorState(models.FlipFilterActive),
		registry: NewRegistry(),
		subs:     make(map[int]chan Snapshot),
	}
}

// Send enqueues an event. Events sent before Run are processed once it
// starts.
func (o *Orchestrator) Send(ev Event) bool {
	return o.mailbox.push(ev)
}

// SendTo routes an item-scoped command to the actor owning id.
func (o *Orchestrator) SendTo(id string, cmd Command) error {
	o.mu.RLock()
	a, ok := o.registry.Get(id)
	o.mu.RUnlock()
	if !ok {
		return fmt.Errorf("flip %s: %w", id, common.ErrorNotFound)
	}
	if !a.Send(cmd) {
		return fmt.Errorf("flip %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

// Actor returns the live actor for id.
func (o *Orchestrator) Actor(id string) (*FlipActor, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.registry.Get(id)
}

// Run restores the saved filter, then processes events until ctx is done.
// Actors are stopped before Run returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.restoreFilter(ctx)

	actorsCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		o.wg.Wait()
	}()

	o.publish()

	for {
		ev, ok := o.mailbox.pop(ctx)
		if !ok {
			return ctx.Err()
		}
		o.handle(actorsCtx, ev)
	}
}

func (o *Orchestrator) restoreFilter(ctx context.Context) {
	if o.prefs == nil {
		return
	}
	raw, err := o.prefs.Get(ctx, common.FlipFilterKey)
	if err != nil {
		o.logger.Warn(ctx, "cannot read saved filter", "error", err)
		return
	}
	if len(raw) == 0 {
		return
	}
	filter, err := models.ParseFlipFilter(string(raw))
	if err != nil {
		o.logger.Warn(ctx, "ignoring saved filter", "error", err)
		return
	}
	o.mu.Lock()
	o.state.ctx.filter = filter
	o.state.value = o.state.computeValue()
	o.mu.Unlock()
}

func (o *Orchestrator) handle(ctx context.Context, ev Event) {
	o.mu.Lock()
	prev := o.state.value
	next, effects := stepOrchestrator(o.state, ev)
	o.state = next
	o.mu.Unlock()

	if prev != next.value {
		o.logger.Debug(ctx, "state changed", "from", prev.String(), "to", next.value.String())
	}

	for _, eff := range effects {
		o.execute(ctx, eff)
	}
}

func (o *Orchestrator) execute(ctx context.Context, eff effect) {
	switch e := eff.(type) {
	case effLoadFlips:
		o.async(ctx, func(ctx context.Context) Event {
			flips, err := o.store.LoadFlips(ctx, e.key)
			return flipsLoaded{flips: flips, err: err}
		})

	case effSaveDraft:
		o.async(ctx, func(ctx context.Context) Event {
			return draftSaved{flip: e.flip, err: o.store.SaveFlip(ctx, e.key, e.flip)}
		})

	case effPersistFilter:
		if o.prefs == nil {
			return
		}
		o.async(ctx, func(ctx context.Context) Event {
			return filterSaved{err: o.prefs.Set(ctx, common.FlipFilterKey, []byte(e.filter))}
		})

	case effSpawn:
		a := newFlipActor(e.flip, e.key, o.store, o.network, o, o.logger)
		o.mu.Lock()
		added := o.registry.Add(a)
		o.mu.Unlock()
		if !added {
			return
		}
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			a.run(ctx)
		}()

	case effDespawn:
		o.mu.Lock()
		o.registry.Remove(e.id)
		o.mu.Unlock()

	case effNotify:
		o.logger.Warn(ctx, "notifying error", "message", e.message)
		o.notifier.NotifyError(ctx, e.message)

	case effPublish:
		o.publish()
	}
}

func (o *Orchestrator) async(ctx context.Context, op func(context.Context) Event) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.mailbox.push(op(ctx))
	}()
}

func (o *Orchestrator) childChanged(id string) {
	o.mailbox.push(childChanged{id: id})
}

func (o *Orchestrator) childFailed(id string, err error) {
	o.mailbox.push(childFailed{id: id, err: err})
}

func (o *Orchestrator) childRemoved(id string) {
	o.mailbox.push(childRemoved{id: id})
}

// Snapshot copies the current context and every actor's flip.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	st := o.state
	actors := o.registry.List()
	o.mu.RUnlock()

	views := make([]FlipView, 0, len(actors))
	local := make(map[string]struct{}, len(actors))
	for _, a := range actors {
		v := a.View()
		views = append(views, v)
		if v.Hash != "" {
			local[v.Hash] = struct{}{}
		}
	}

	var missing []models.MissingFlip
	for _, h := range st.ctx.knownFlips {
		if _, ok := local[h]; ok {
			continue
		}
		missing = append(missing, models.MissingFlip{Hash: h, Keywords: st.ctx.keywords[h]})
	}

	return Snapshot{
		State:          st.value,
		Flips:          views,
		MissingFlips:   missing,
		Filter:         st.ctx.filter,
		Epoch:          st.ctx.epoch,
		CanSubmitFlips: st.ctx.canSubmitFlips,
		KnownFlips:     slices.Clone(st.ctx.knownFlips),
	}
}

// Subscribe returns a channel that receives the latest snapshot after
// every change. Slow readers only see the most recent one. Call the
// returned function to unsubscribe.
func (o *Orchestrator) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	o.subsMu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	o.subsMu.Unlock()

	return ch, func() {
		o.subsMu.Lock()
		delete(o.subs, id)
		o.subsMu.Unlock()
	}
}

func (o *Orchestrator) publish() {
	snap := o.Snapshot()

	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	for _, ch := range o.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
