package flips

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name                        string
		required, available, made   int
		wantRequired, wantOptional  int
		clampedRequired, clampedOpt int
	}{
		{"fresh epoch", 6, 10, 3, 3, 4, 3, 4},
		{"nothing made", 3, 5, 0, 3, 2, 3, 2},
		{"all required made", 3, 5, 3, 0, 2, 0, 2},
		{"beyond required", 3, 5, 4, -1, 1, 0, 1},
		{"over allowance", 3, 5, 7, -4, -2, 0, 0},
		{"no requirement", 0, 0, 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Remaining(tt.required, tt.available, tt.made)
			assert.Equal(t, tt.wantRequired, r.RemainingRequired)
			assert.Equal(t, tt.wantOptional, r.RemainingOptional)

			c := r.Clamped()
			assert.Equal(t, tt.clampedRequired, c.RemainingRequired)
			assert.Equal(t, tt.clampedOpt, c.RemainingOptional)
		})
	}
}

func TestRemaining_RequiredPlusMadeIsRequired(t *testing.T) {
	for required := 0; required <= 8; required++ {
		for made := 0; made <= required; made++ {
			for available := required; available <= required+4; available++ {
				r := Remaining(required, available, made)
				assert.Equal(t, required, r.RemainingRequired+made)

				c := r.Clamped()
				assert.GreaterOrEqual(t, c.RemainingRequired, 0)
				assert.GreaterOrEqual(t, c.RemainingOptional, 0)
			}
		}
	}
}

func TestRequirements_Outstanding(t *testing.T) {
	assert.True(t, Requirements{RemainingRequired: 1}.Outstanding())
	assert.True(t, Requirements{RemainingOptional: 1}.Outstanding())
	assert.False(t, Requirements{RemainingRequired: -2, RemainingOptional: 0}.Outstanding())
}
