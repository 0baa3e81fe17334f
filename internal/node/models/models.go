// Package models defines the node's records: identities, the flip index
// and the epoch.
package models

import (
	"fmt"
	"time"
)

type IdentityState string

const (
	IdentityStateUndefined IdentityState = "Undefined"
	IdentityStateInvite    IdentityState = "Invite"
	IdentityStateCandidate IdentityState = "Candidate"
	IdentityStateVerified  IdentityState = "Verified"
	IdentityStateSuspended IdentityState = "Suspended"
	IdentityStateKilled    IdentityState = "Killed"
	IdentityStateZombie    IdentityState = "Zombie"
	IdentityStateNewbie    IdentityState = "Newbie"
	IdentityStateHuman     IdentityState = "Human"
)

var identityStates = map[IdentityState]bool{
	IdentityStateUndefined: false,
	IdentityStateInvite:    false,
	IdentityStateCandidate: false,
	IdentityStateVerified:  true,
	IdentityStateSuspended: false,
	IdentityStateKilled:    false,
	IdentityStateZombie:    false,
	IdentityStateNewbie:    true,
	IdentityStateHuman:     true,
}

func ParseIdentityState(s string) (IdentityState, error) {
	st := IdentityState(s)
	if _, ok := identityStates[st]; !ok {
		return "", fmt.Errorf("unknown identity state %q", s)
	}
	return st, nil
}

// CanSubmitFlips reports whether identities in this state may publish flips.
func (s IdentityState) CanSubmitFlips() bool {
	return identityStates[s]
}

type Identity struct {
	Address        string
	State          IdentityState
	RequiredFlips  int
	AvailableFlips int
	UpdatedAt      time.Time
}

// Flip is the node's index entry for a published flip. The sealed payload
// lives in object storage under StorageKey.
type Flip struct {
	Hash       string
	Author     string
	Epoch      int
	Pair       *[2]int
	StorageKey string
	Size       int
	CreatedAt  time.Time
}

type Epoch struct {
	Epoch          int
	NextValidation time.Time
}

// Keyword is one word of the flip keyword dictionary.
type Keyword struct {
	Name string
	Desc string
}
