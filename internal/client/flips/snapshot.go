package flips

import (
	"strings"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
)

type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseReady         Phase = "ready"
)

// StateValue is the orchestrator's hierarchical state.
//
//	uninitialized
//	ready.pristine
//	ready.dirty
//	ready.dirty.active
type StateValue struct {
	Phase Phase
	// Dirty: at least one local or missing flip exists.
	Dirty bool
	// Active: dirty and the active list is selected.
	Active bool
}

func (v StateValue) String() string {
	if v.Phase != PhaseReady {
		return string(PhaseUninitialized)
	}
	if !v.Dirty {
		return "ready.pristine"
	}
	if v.Active {
		return "ready.dirty.active"
	}
	return "ready.dirty"
}

// Matches reports whether the state is path or one of its descendants,
// e.g. "ready" matches "ready.dirty.active".
func (v StateValue) Matches(path string) bool {
	want := strings.Split(path, ".")
	have := strings.Split(v.String(), ".")
	if len(want) > len(have) {
		return false
	}
	for i := range want {
		if want[i] != have[i] {
			return false
		}
	}
	return true
}

// FlipView is a copy of an actor's flip together with a reference for
// sending it commands.
type FlipView struct {
	models.Flip
	Ref ActorRef
}

// Snapshot is an immutable copy of the orchestrator's context.
type Snapshot struct {
	State StateValue
	// Flips are in registry order.
	Flips          []FlipView
	MissingFlips   []models.MissingFlip
	Filter         models.FlipFilter
	Epoch          int
	CanSubmitFlips bool
	KnownFlips     []string
}
