package flips

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
)

func view(id string, t models.FlipType) FlipView {
	return FlipView{Flip: models.Flip{ID: id, Type: t}}
}

func ids(views []FlipView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestSelect(t *testing.T) {
	all := []FlipView{
		view("1", models.FlipTypeDraft),
		view("2", models.FlipTypePublished),
		view("3", models.FlipTypeArchived),
		view("4", models.FlipTypeInvalid),
		view("5", models.FlipTypeDeleted),
		view("6", models.FlipTypePublishing),
		view("7", models.FlipTypeDeleting),
	}

	tests := []struct {
		name   string
		filter models.FlipFilter
		want   []string
	}{
		{"active", models.FlipFilterActive, []string{"2", "4", "6", "7"}},
		{"draft", models.FlipFilterDraft, []string{"1"}},
		{"archived", models.FlipFilterArchived, []string{"3", "5"}},
		{"unknown", models.FlipFilter("bogus"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Select(all, tt.filter)))
		})
	}
}

func TestSelect_Empty(t *testing.T) {
	assert.Empty(t, Select(nil, models.FlipFilterActive))
}

func TestMatches_Partition(t *testing.T) {
	filters := []models.FlipFilter{
		models.FlipFilterActive,
		models.FlipFilterDraft,
		models.FlipFilterArchived,
	}

	for _, ft := range models.FlipTypes {
		n := 0
		for _, f := range filters {
			if Matches(ft, f) {
				n++
			}
		}
		assert.Equal(t, 1, n, "type %s must be in exactly one list", ft)
	}
}
