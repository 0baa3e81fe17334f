package flips

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
)

var (
	ErrMissingKey     = errors.New("identity key is not available")
	ErrInvalidEpoch   = errors.New("epoch is not known")
	ErrNotInitialized = errors.New("flips are not initialized")
)

// Event is accepted by the Orchestrator.
type Event interface {
	event()
}

// Initialize carries the host context. It is sent again whenever the
// epoch, the key or the identity changes; the actor set is reconciled,
// never rebuilt.
type Initialize struct {
	Epoch          int
	PrivateKey     ed25519.PrivateKey
	CanSubmitFlips bool
	// KnownFlips are the hashes the network has for this identity.
	KnownFlips []string
	Keywords   map[string][]models.Keyword
}

// Filter selects the visible list and persists the choice.
type Filter struct {
	Filter models.FlipFilter
}

// AddDraft stores a new draft and starts an actor for it.
type AddDraft struct {
	Flip models.Flip
}

func (Initialize) event() {}
func (Filter) event()     {}
func (AddDraft) event()   {}

type (
	flipsLoaded struct {
		flips []models.Flip
		err   error
	}
	draftSaved struct {
		flip models.Flip
		err  error
	}
	filterSaved struct {
		err error
	}
	childChanged struct {
		id string
	}
	childFailed struct {
		id  string
		err error
	}
	childRemoved struct {
		id string
	}
)

func (flipsLoaded) event()  {}
func (draftSaved) event()   {}
func (filterSaved) event()  {}
func (childChanged) event() {}
func (childFailed) event()  {}
func (childRemoved) event() {}

type effect interface {
	effect()
}

type (
	effLoadFlips struct {
		key ed25519.PrivateKey
	}
	effSaveDraft struct {
		key  ed25519.PrivateKey
		flip models.Flip
	}
	effSpawn struct {
		key  ed25519.PrivateKey
		flip models.Flip
	}
	effDespawn struct {
		id string
	}
	effPersistFilter struct {
		filter models.FlipFilter
	}
	effNotify struct {
		message string
	}
	effPublish struct{}
)

func (effLoadFlips) effect()     {}
func (effSaveDraft) effect()     {}
func (effSpawn) effect()         {}
func (effDespawn) effect()       {}
func (effPersistFilter) effect() {}
func (effNotify) effect()        {}
func (effPublish) effect()       {}

type machineContext struct {
	filter         models.FlipFilter
	epoch          int
	key            ed25519.PrivateKey
	canSubmitFlips bool
	knownFlips     []string
	keywords       map[string][]models.Keyword
}

type orchestratorState struct {
	value StateValue
	ctx   machineContext
	// ids mirrors the registry: one entry per live actor.
	ids []string
	// removed holds ids of flips deleted this session; a load that
	// raced the delete must not bring them back.
	removed []string
}

func initialOrchestratorState(filter models.FlipFilter) orchestratorState {
	return orchestratorState{
		value: StateValue{Phase: PhaseUninitialized},
		ctx:   machineContext{filter: filter},
	}
}

// stepOrchestrator is the Orchestrator transition function. Failures
// produce an effNotify and leave the state where it was.
func stepOrchestrator(s orchestratorState, ev Event) (orchestratorState, []effect) {
	switch e := ev.(type) {
	case Initialize:
		if len(e.PrivateKey) == 0 {
			return s, notify(fmt.Errorf("cannot load flips: %w", ErrMissingKey))
		}
		if e.Epoch < 0 {
			return s, notify(fmt.Errorf("cannot load flips: %w", ErrInvalidEpoch))
		}
		s.ctx.epoch = e.Epoch
		s.ctx.key = e.PrivateKey
		s.ctx.canSubmitFlips = e.CanSubmitFlips
		s.ctx.knownFlips = slices.Clone(e.KnownFlips)
		s.ctx.keywords = e.Keywords
		effects := []effect{effLoadFlips{key: e.PrivateKey}}
		if s.value.Phase == PhaseReady {
			s.value = s.computeValue()
			effects = append(effects, effPublish{})
		}
		return s, effects

	case flipsLoaded:
		if e.err != nil {
			return s, notify(fmt.Errorf("cannot load flips: %w", e.err))
		}
		var effects []effect
		s.ids = slices.Clone(s.ids)
		for _, f := range e.flips {
			if slices.Contains(s.ids, f.ID) || slices.Contains(s.removed, f.ID) {
				continue
			}
			s.ids = append(s.ids, f.ID)
			effects = append(effects, effSpawn{key: s.ctx.key, flip: f})
		}
		s.value.Phase = PhaseReady
		s.value = s.computeValue()
		return s, append(effects, effPublish{})

	case Filter:
		s.ctx.filter = e.Filter
		s.value = s.computeValue()
		return s, []effect{effPersistFilter{filter: e.Filter}, effPublish{}}

	case filterSaved:
		if e.err != nil {
			return s, notify(fmt.Errorf("cannot save filter: %w", e.err))
		}
		return s, nil

	case AddDraft:
		if s.value.Phase != PhaseReady {
			return s, notify(fmt.Errorf("cannot add flip: %w", ErrNotInitialized))
		}
		if e.Flip.Type != models.FlipTypeDraft {
			return s, notify(fmt.Errorf("cannot add flip: new flips must be drafts, got %s", e.Flip.Type))
		}
		if err := e.Flip.Validate(); err != nil {
			return s, notify(fmt.Errorf("cannot add flip: %w", err))
		}
		if slices.Contains(s.ids, e.Flip.ID) {
			return s, notify(fmt.Errorf("cannot add flip: flip %s already exists", e.Flip.ID))
		}
		return s, []effect{effSaveDraft{key: s.ctx.key, flip: e.Flip}}

	case draftSaved:
		if e.err != nil {
			return s, notify(fmt.Errorf("cannot save flip: %w", e.err))
		}
		if slices.Contains(s.ids, e.flip.ID) {
			return s, nil
		}
		s.ids = append(slices.Clone(s.ids), e.flip.ID)
		s.value = s.computeValue()
		return s, []effect{effSpawn{key: s.ctx.key, flip: e.flip}, effPublish{}}

	case childChanged:
		return s, []effect{effPublish{}}

	case childFailed:
		return s, notify(e.err)

	case childRemoved:
		idx := slices.Index(s.ids, e.id)
		if idx < 0 {
			return s, nil
		}
		s.ids = slices.Delete(slices.Clone(s.ids), idx, idx+1)
		s.removed = append(slices.Clone(s.removed), e.id)
		s.value = s.computeValue()
		return s, []effect{effDespawn{id: e.id}, effPublish{}}
	}

	return s, nil
}

// computeValue derives the ready substate from the context. Missing flips
// are known hashes without a local flip, so with no actors every known
// hash is missing.
func (s orchestratorState) computeValue() StateValue {
	if s.value.Phase != PhaseReady {
		return StateValue{Phase: PhaseUninitialized}
	}
	dirty := len(s.ids) > 0 || len(s.ctx.knownFlips) > 0
	return StateValue{
		Phase:  PhaseReady,
		Dirty:  dirty,
		Active: dirty && s.ctx.filter == models.FlipFilterActive,
	}
}

func notify(err error) []effect {
	return []effect{effNotify{message: err.Error()}}
}
