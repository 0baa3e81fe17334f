package flips

import (
	"context"
	"crypto/ed25519"
	"errors"
	"sync"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/logging"
)

// ActorRef is the handle the view layer uses to send item-scoped commands.
type ActorRef interface {
	Send(cmd Command) bool
}

// supervisor receives a child's externally observable events.
type supervisor interface {
	childChanged(id string)
	childFailed(id string, err error)
	childRemoved(id string)
}

// FlipActor owns one flip and serializes every command for it.
type FlipActor struct {
	id      string
	key     ed25519.PrivateKey
	store   Store
	network Network
	parent  supervisor
	logger  logging.Logger

	mailbox *mailbox[Command]
	// in-flight effects
	wg sync.WaitGroup

	mu    sync.RWMutex
	state actorState

	done chan struct{}
}

func newFlipActor(flip models.Flip, key ed25519.PrivateKey, store Store, network Network, parent supervisor, logger logging.Logger) *FlipActor {
	return &FlipActor{
		id:      flip.ID,
		key:     key,
		store:   store,
		network: network,
		parent:  parent,
		logger:  logger.With("flip", flip.ID),
		mailbox: newMailbox[Command](),
		state:   actorState{flip: recoverInterrupted(flip.Clone())},
		done:    make(chan struct{}),
	}
}

func (a *FlipActor) ID() string {
	return a.id
}

// Send enqueues a command. It returns false once the actor has stopped.
func (a *FlipActor) Send(cmd Command) bool {
	return a.mailbox.push(cmd)
}

// View returns a copy of the owned flip.
func (a *FlipActor) View() FlipView {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return FlipView{Flip: a.state.flip.Clone(), Ref: a}
}

// Done is closed when the actor's loop has exited.
func (a *FlipActor) Done() <-chan struct{} {
	return a.done
}

func (a *FlipActor) run(ctx context.Context) {
	defer close(a.done)
	defer a.wg.Wait()
	defer a.mailbox.close()

	for {
		cmd, ok := a.mailbox.pop(ctx)
		if !ok {
			return
		}

		a.mu.Lock()
		next, effects, err := stepActor(a.state, cmd)
		if err == nil {
			a.state = next
		}
		a.mu.Unlock()

		if err != nil {
			a.logger.Warn(ctx, "command rejected", "command", commandName(cmd), "error", err)
			continue
		}

		for _, eff := range effects {
			a.execute(ctx, eff)
		}

		if next.done {
			return
		}
	}
}

func (a *FlipActor) execute(ctx context.Context, eff actorEffect) {
	switch e := eff.(type) {
	case effChanged:
		a.parent.childChanged(a.id)

	case effFail:
		a.logger.Error(ctx, "flip operation failed", "error", e.err)
		a.parent.childFailed(a.id, e.err)

	case effRemoved:
		a.parent.childRemoved(a.id)

	case effRejected:
		a.logger.Warn(ctx, "command rejected", "command", commandName(e.cmd), "error", e.err)

	case effSubmit:
		a.async(ctx, func(ctx context.Context) Command {
			hash, err := a.network.SubmitFlip(ctx, a.key, e.flip)
			return submitDone{hash: hash, err: err}
		})

	case effDeleteRemote:
		a.async(ctx, func(ctx context.Context) Command {
			return deleteDone{err: a.network.DeleteFlip(ctx, e.hash)}
		})

	case effPersist:
		a.async(ctx, func(ctx context.Context) Command {
			return persistDone{reason: e.reason, err: a.store.SaveFlip(ctx, a.key, e.flip)}
		})

	case effRemoveLocal:
		a.async(ctx, func(ctx context.Context) Command {
			return removeDone{err: a.store.DeleteFlip(ctx, e.id)}
		})
	}
}

// async runs op outside the loop and posts its result back. Results that
// arrive after ctx is done are dropped.
func (a *FlipActor) async(ctx context.Context, op func(context.Context) Command) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		result := op(ctx)
		if !a.mailbox.push(result) && !errors.Is(ctx.Err(), context.Canceled) {
			a.logger.Debug(ctx, "result dropped, actor stopped", "result", commandName(result))
		}
	}()
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case Archive:
		return "archive"
	case Delete:
		return "delete"
	case Publish:
		return "publish"
	case submitDone:
		return "submit result"
	case deleteDone:
		return "delete result"
	case persistDone:
		return "save result"
	case removeDone:
		return "remove result"
	}
	return "unknown"
}
