package flips

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
)

var (
	ErrIllegalTransition = errors.New("illegal flip transition")
	ErrNoHash            = errors.New("flip has no network hash")
)

// Command is accepted by a FlipActor.
type Command interface {
	command()
}

// Archive moves a published flip to the archive.
type Archive struct{}

// Delete removes a published flip from the network, then locally.
type Delete struct{}

// Publish submits a draft (or a previously rejected flip) to the network.
type Publish struct{}

func (Archive) command() {}
func (Delete) command()  {}
func (Publish) command() {}

// Results of the actor's own effects, posted back into its mailbox.
type (
	submitDone struct {
		hash string
		err  error
	}
	deleteDone struct {
		err error
	}
	persistDone struct {
		reason persistReason
		err    error
	}
	removeDone struct {
		err error
	}
)

func (submitDone) command()  {}
func (deleteDone) command()  {}
func (persistDone) command() {}
func (removeDone) command()  {}

type persistReason int

const (
	persistPublished persistReason = iota + 1
	persistArchived
)

type actorEffect interface {
	actorEffect()
}

type (
	// changed: the flip's visible state changed.
	effChanged struct{}
	effSubmit  struct {
		flip models.Flip
	}
	effDeleteRemote struct {
		hash string
	}
	effPersist struct {
		flip   models.Flip
		reason persistReason
	}
	effRemoveLocal struct {
		id string
	}
	effFail struct {
		err error
	}
	// removed: terminal, the actor stops after reporting it.
	effRemoved struct{}
	// rejected: a held command turned out illegal once replayed.
	effRejected struct {
		cmd Command
		err error
	}
)

func (effChanged) actorEffect()      {}
func (effSubmit) actorEffect()       {}
func (effDeleteRemote) actorEffect() {}
func (effPersist) actorEffect()      {}
func (effRemoveLocal) actorEffect()  {}
func (effFail) actorEffect()         {}
func (effRemoved) actorEffect()      {}
func (effRejected) actorEffect()     {}

type actorState struct {
	flip models.Flip
	done bool
	// persisting is set while a SaveFlip is in flight. User commands are
	// held in deferred until it completes, so a late save can never
	// write back a flip that a later command removed.
	persisting bool
	deferred   []Command
}

// stepActor is the FlipActor transition function. It never mutates s.
// Commands that are not legal in the current state return an error
// wrapping ErrIllegalTransition and leave the state as is; repeated
// Archive, Delete and Publish while already in the target (or in-flight)
// state are no-ops. Every type change is checked against
// models.ValidateFlipTransition.
func stepActor(s actorState, cmd Command) (actorState, []actorEffect, error) {
	if s.done {
		return s, nil, fmt.Errorf("%w: flip %s is already removed", ErrIllegalTransition, s.flip.ID)
	}

	if s.persisting && isUserCommand(cmd) {
		s.deferred = append(slices.Clone(s.deferred), cmd)
		return s, nil, nil
	}

	next, effects, err := applyCommand(s, cmd)
	if err != nil {
		return s, nil, err
	}
	if err := checkTransition(s.flip.Type, next.flip.Type); err != nil {
		return s, nil, err
	}

	if _, ok := cmd.(persistDone); ok && len(next.deferred) > 0 {
		held := next.deferred
		next.deferred = nil
		for _, c := range held {
			n, e, err := stepActor(next, c)
			if err != nil {
				effects = append(effects, effRejected{cmd: c, err: err})
				continue
			}
			next = n
			effects = append(effects, e...)
		}
	}
	return next, effects, nil
}

func checkTransition(from, to models.FlipType) error {
	if from == to {
		return nil
	}
	if err := models.ValidateFlipTransition(from, to); err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalTransition, err)
	}
	return nil
}

func isUserCommand(cmd Command) bool {
	switch cmd.(type) {
	case Archive, Delete, Publish:
		return true
	}
	return false
}

func applyCommand(s actorState, cmd Command) (actorState, []actorEffect, error) {
	switch c := cmd.(type) {
	case Archive:
		switch s.flip.Type {
		case models.FlipTypeArchived:
			return s, nil, nil
		case models.FlipTypePublished:
			s.flip = withType(s.flip, models.FlipTypeArchived)
			s.persisting = true
			return s, []actorEffect{
				effChanged{},
				effPersist{flip: s.flip.Clone(), reason: persistArchived},
			}, nil
		}
		return s, nil, illegal(s.flip, "archive")

	case Delete:
		switch s.flip.Type {
		case models.FlipTypeDeleting, models.FlipTypeDeleted:
			return s, nil, nil
		case models.FlipTypePublished:
			if s.flip.Hash == "" {
				return s, nil, fmt.Errorf("%w: cannot delete flip %s: %w", ErrIllegalTransition, s.flip.ID, ErrNoHash)
			}
			s.flip = withType(s.flip, models.FlipTypeDeleting)
			return s, []actorEffect{
				effChanged{},
				effDeleteRemote{hash: s.flip.Hash},
			}, nil
		}
		return s, nil, illegal(s.flip, "delete")

	case Publish:
		switch s.flip.Type {
		case models.FlipTypePublishing:
			return s, nil, nil
		case models.FlipTypeDraft, models.FlipTypeInvalid:
			if err := s.flip.Validate(); err != nil {
				return s, []actorEffect{effFail{err: fmt.Errorf("cannot publish flip: %w", err)}}, nil
			}
			s.flip = withType(s.flip, models.FlipTypePublishing)
			return s, []actorEffect{
				effChanged{},
				effSubmit{flip: s.flip.Clone()},
			}, nil
		}
		return s, nil, illegal(s.flip, "publish")

	case submitDone:
		if s.flip.Type != models.FlipTypePublishing {
			return s, nil, illegal(s.flip, "complete publishing")
		}
		if c.err != nil {
			s.flip = withType(s.flip, models.FlipTypeInvalid)
			return s, []actorEffect{
				effChanged{},
				effFail{err: fmt.Errorf("cannot publish flip: %w", c.err)},
			}, nil
		}
		s.flip = withType(s.flip, models.FlipTypePublished)
		s.flip.Hash = c.hash
		s.persisting = true
		return s, []actorEffect{
			effChanged{},
			effPersist{flip: s.flip.Clone(), reason: persistPublished},
		}, nil

	case deleteDone:
		if s.flip.Type != models.FlipTypeDeleting {
			return s, nil, illegal(s.flip, "complete deleting")
		}
		if c.err != nil {
			s.flip = withType(s.flip, models.FlipTypePublished)
			return s, []actorEffect{
				effChanged{},
				effFail{err: fmt.Errorf("cannot delete flip %s: %w", s.flip.Hash, c.err)},
			}, nil
		}
		s.flip = withType(s.flip, models.FlipTypeDeleted)
		return s, []actorEffect{
			effChanged{},
			effRemoveLocal{id: s.flip.ID},
		}, nil

	case persistDone:
		s.persisting = false
		if c.err == nil {
			return s, nil, nil
		}
		if c.reason == persistArchived && s.flip.Type == models.FlipTypeArchived {
			s.flip = withType(s.flip, models.FlipTypePublished)
			return s, []actorEffect{
				effChanged{},
				effFail{err: fmt.Errorf("cannot archive flip: %w", c.err)},
			}, nil
		}
		// the network already has the flip; only the local copy is stale
		return s, []actorEffect{effFail{err: fmt.Errorf("cannot save flip: %w", c.err)}}, nil

	case removeDone:
		s.done = true
		if c.err != nil {
			return s, []actorEffect{
				effFail{err: fmt.Errorf("flip was deleted but local copy remains: %w", c.err)},
				effRemoved{},
			}, nil
		}
		return s, []actorEffect{effRemoved{}}, nil
	}

	return s, nil, fmt.Errorf("%w: unknown command %T", ErrIllegalTransition, cmd)
}

func withType(f models.Flip, t models.FlipType) models.Flip {
	f.Type = t
	return f
}

func illegal(f models.Flip, action string) error {
	return fmt.Errorf("%w: cannot %s a %s flip", ErrIllegalTransition, action, f.Type)
}

// recoverInterrupted maps states that only exist while an operation is in
// flight back to a resting state. Used for flips loaded from the store.
func recoverInterrupted(f models.Flip) models.Flip {
	switch f.Type {
	case models.FlipTypePublishing:
		if f.Hash != "" {
			return withType(f, models.FlipTypePublished)
		}
		return withType(f, models.FlipTypeInvalid)
	case models.FlipTypeDeleting:
		return withType(f, models.FlipTypePublished)
	}
	return f
}
