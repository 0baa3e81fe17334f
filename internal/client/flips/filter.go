package flips

import "github.com/dmitrijs2005/flipkeeper/internal/client/models"

// Matches reports whether a flip of type t belongs to the given list.
// Every type belongs to exactly one list. Deleted flips stay under the
// archived list until their actor is torn down.
func Matches(t models.FlipType, filter models.FlipFilter) bool {
	switch filter {
	case models.FlipFilterActive:
		switch t {
		case models.FlipTypePublishing, models.FlipTypePublished,
			models.FlipTypeDeleting, models.FlipTypeInvalid:
			return true
		}
	case models.FlipFilterDraft:
		return t == models.FlipTypeDraft
	case models.FlipFilterArchived:
		return t == models.FlipTypeArchived || t == models.FlipTypeDeleted
	}
	return false
}

// Select returns the flips visible under filter, preserving order.
func Select(flips []FlipView, filter models.FlipFilter) []FlipView {
	out := make([]FlipView, 0, len(flips))
	for _, f := range flips {
		if Matches(f.Type, filter) {
			out = append(out, f)
		}
	}
	return out
}
