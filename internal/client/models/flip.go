// Package models defines client-side data models: flips, their lifecycle
// classification, list filters and the identity/epoch facts supplied by
// the node.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FlipType is the lifecycle classification of a single flip.
type FlipType string

const (
	FlipTypeDraft      FlipType = "draft"
	FlipTypePublishing FlipType = "publishing"
	FlipTypePublished  FlipType = "published"
	FlipTypeArchived   FlipType = "archived"
	FlipTypeDeleting   FlipType = "deleting"
	FlipTypeDeleted    FlipType = "deleted"
	FlipTypeInvalid    FlipType = "invalid"
)

// FlipTypes lists every classification in lifecycle order.
var FlipTypes = []FlipType{
	FlipTypeDraft,
	FlipTypePublishing,
	FlipTypePublished,
	FlipTypeArchived,
	FlipTypeDeleting,
	FlipTypeDeleted,
	FlipTypeInvalid,
}

var allowedFlipTransitions = map[FlipType]map[FlipType]struct{}{
	FlipTypeDraft: {
		FlipTypePublishing: {},
	},
	FlipTypePublishing: {
		FlipTypePublished: {},
		FlipTypeInvalid:   {},
	},
	FlipTypeInvalid: {
		FlipTypePublishing: {},
	},
	FlipTypePublished: {
		FlipTypeArchived: {},
		FlipTypeDeleting: {},
	},
	FlipTypeDeleting: {
		FlipTypeDeleted: {},
		// failed network delete
		FlipTypePublished: {},
	},
	FlipTypeArchived: {
		// archive could not be persisted
		FlipTypePublished: {},
	},
	FlipTypeDeleted: {},
}

func ValidateFlipType(t FlipType) error {
	if _, ok := allowedFlipTransitions[t]; !ok {
		return fmt.Errorf("invalid flip type: %q", t)
	}
	return nil
}

// ValidateFlipTransition reports whether a flip may move from one
// classification to another.
func ValidateFlipTransition(from, to FlipType) error {
	if err := ValidateFlipType(from); err != nil {
		return err
	}
	if err := ValidateFlipType(to); err != nil {
		return err
	}
	if _, ok := allowedFlipTransitions[from][to]; !ok {
		return fmt.Errorf("invalid flip transition: %s -> %s", from, to)
	}
	return nil
}

// KeywordPair references two words of the network dictionary by index.
type KeywordPair [2]int

// Keyword is a dictionary word as returned by the node.
type Keyword struct {
	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
}

// FormatKeywords joins keyword names for display.
func FormatKeywords(words []Keyword) string {
	names := make([]string, 0, len(words))
	for _, w := range words {
		names = append(names, w.Name)
	}
	return strings.Join(names, " / ")
}

// Flip is one image puzzle owned by the local client.
type Flip struct {
	// ID is the local identifier (uuid).
	ID string
	// Hash is the content address assigned on publication; empty for drafts.
	Hash string
	Type FlipType
	// Keywords is nil until the author picks a pair.
	Keywords *KeywordPair
	Images   [][]byte
	// OriginalOrder is the permutation of image indices in story order.
	OriginalOrder []int
	CreatedAt     time.Time
}

var ErrInvalidOrder = errors.New("original order must be a permutation of image indices")

// Validate checks the structural invariants of a flip.
func (f Flip) Validate() error {
	if f.ID == "" {
		return errors.New("flip id is empty")
	}
	if err := ValidateFlipType(f.Type); err != nil {
		return err
	}
	if len(f.OriginalOrder) != len(f.Images) {
		return ErrInvalidOrder
	}
	seen := make([]bool, len(f.Images))
	for _, idx := range f.OriginalOrder {
		if idx < 0 || idx >= len(f.Images) || seen[idx] {
			return ErrInvalidOrder
		}
		seen[idx] = true
	}
	return nil
}

// Cover returns the first image in story order, or nil.
func (f Flip) Cover() []byte {
	if len(f.OriginalOrder) == 0 {
		return nil
	}
	idx := f.OriginalOrder[0]
	if idx < 0 || idx >= len(f.Images) {
		return nil
	}
	return f.Images[idx]
}

// Clone returns a deep copy so snapshots never alias actor-owned state.
func (f Flip) Clone() Flip {
	c := f
	if f.Keywords != nil {
		kw := *f.Keywords
		c.Keywords = &kw
	}
	if f.Images != nil {
		c.Images = make([][]byte, len(f.Images))
		for i, img := range f.Images {
			c.Images[i] = append([]byte(nil), img...)
		}
	}
	if f.OriginalOrder != nil {
		c.OriginalOrder = append([]int(nil), f.OriginalOrder...)
	}
	return c
}

// MissingFlip is a flip the network knows about but this client has no
// local record of (for example, made on another device).
type MissingFlip struct {
	Hash string
	// Keywords is nil when the node did not report them.
	Keywords []Keyword
}

// FlipFilter selects which part of the flip list is shown.
type FlipFilter string

const (
	FlipFilterActive   FlipFilter = "active"
	FlipFilterDraft    FlipFilter = "draft"
	FlipFilterArchived FlipFilter = "archived"
)

var ErrUnknownFilter = errors.New("unknown flip filter")

// ParseFlipFilter accepts the filter names case-insensitively, plus the
// plural spellings used by the CLI.
func ParseFlipFilter(s string) (FlipFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return FlipFilterActive, nil
	case "draft", "drafts":
		return FlipFilterDraft, nil
	case "archived", "archive":
		return FlipFilterArchived, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
}
