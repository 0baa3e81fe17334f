package flips

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
)

// Placeholder is a slot for a flip the identity still has to (or may) make.
type Placeholder struct {
	Title    string
	Optional bool
	// Disabled optional slots unlock once every required flip is made.
	Disabled bool
}

// ListView is what the flip list screen shows for one snapshot.
type ListView struct {
	State  StateValue
	Filter models.FlipFilter
	// Empty is set in ready.pristine.
	Empty        bool
	Flips        []FlipView
	MissingFlips []models.MissingFlip
	Placeholders []Placeholder
	// Requirements holds raw (unclamped) counts.
	Requirements Requirements
	// ShowSubmitBanner: the active list is shown and flips can still be made.
	ShowSubmitBanner bool
	// CannotSubmit: the identity status is known and does not allow flips.
	CannotSubmit bool
}

// BuildListView combines an orchestrator snapshot with the node's view of
// the identity. Flips made so far are the hashes the network reports.
func BuildListView(s Snapshot, identity models.Identity) ListView {
	made := len(identity.Flips)
	req := Remaining(identity.RequiredFlips, identity.AvailableFlips, made)
	canSubmit := identity.State.CanSubmitFlips()

	v := ListView{
		State:        s.State,
		Filter:       s.Filter,
		Requirements: req,
		CannotSubmit: identity.State != "" && !canSubmit,
	}

	active := s.State.Matches("ready.dirty.active")
	v.ShowSubmitBanner = active && canSubmit && req.Outstanding()

	if s.State.Matches("ready.pristine") {
		v.Empty = true
		return v
	}
	if !s.State.Matches("ready.dirty") {
		return v
	}

	v.Flips = Select(s.Flips, s.Filter)
	if !active {
		return v
	}

	v.MissingFlips = slices.Clone(s.MissingFlips)
	v.Placeholders = placeholders(made, req.Clamped())
	return v
}

func placeholders(made int, c Requirements) []Placeholder {
	out := make([]Placeholder, 0, c.RemainingRequired+c.RemainingOptional)
	for i := 0; i < c.RemainingRequired; i++ {
		out = append(out, Placeholder{Title: fmt.Sprintf("Flip #%d", made+i+1)})
	}
	for i := 0; i < c.RemainingOptional; i++ {
		out = append(out, Placeholder{
			Title:    fmt.Sprintf("Flip #%d", made+c.RemainingRequired+i+1),
			Optional: true,
			Disabled: c.RemainingRequired > 0,
		})
	}
	return out
}

// RemovalCommand picks how a flip leaves the list: published flips the
// network knows are deleted, anything else is archived.
func RemovalCommand(f FlipView, knownFlips []string) Command {
	if f.Type == models.FlipTypePublished && f.Hash != "" && slices.Contains(knownFlips, f.Hash) {
		return Delete{}
	}
	return Archive{}
}
