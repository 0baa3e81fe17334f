package models

import "time"

// IdentityStatus is the network state of an identity.
type IdentityStatus string

const (
	IdentityStatusUndefined IdentityStatus = "Undefined"
	IdentityStatusInvite    IdentityStatus = "Invite"
	IdentityStatusCandidate IdentityStatus = "Candidate"
	IdentityStatusVerified  IdentityStatus = "Verified"
	IdentityStatusSuspended IdentityStatus = "Suspended"
	IdentityStatusKilled    IdentityStatus = "Killed"
	IdentityStatusZombie    IdentityStatus = "Zombie"
	IdentityStatusNewbie    IdentityStatus = "Newbie"
	IdentityStatusHuman     IdentityStatus = "Human"
)

// CanSubmitFlips reports whether identities in this state may publish flips.
func (s IdentityStatus) CanSubmitFlips() bool {
	switch s {
	case IdentityStatusVerified, IdentityStatusHuman, IdentityStatusNewbie:
		return true
	default:
		return false
	}
}

// Identity is the node's view of the local identity for the current epoch.
type Identity struct {
	Address string
	State   IdentityStatus
	// Flips holds the hashes of flips the network has from this identity.
	Flips          []string
	RequiredFlips  int
	AvailableFlips int
	// Keywords maps a flip hash to its words when the node knows them.
	Keywords map[string][]Keyword
}

// Epoch is the current validation period.
type Epoch struct {
	Epoch          int
	NextValidation time.Time
}
