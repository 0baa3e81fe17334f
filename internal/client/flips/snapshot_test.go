package flips

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateValue_String(t *testing.T) {
	tests := []struct {
		v    StateValue
		want string
	}{
		{StateValue{}, "uninitialized"},
		{StateValue{Phase: PhaseUninitialized, Dirty: true}, "uninitialized"},
		{StateValue{Phase: PhaseReady}, "ready.pristine"},
		{StateValue{Phase: PhaseReady, Active: true}, "ready.pristine"},
		{StateValue{Phase: PhaseReady, Dirty: true}, "ready.dirty"},
		{StateValue{Phase: PhaseReady, Dirty: true, Active: true}, "ready.dirty.active"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
}

func TestStateValue_Matches(t *testing.T) {
	active := StateValue{Phase: PhaseReady, Dirty: true, Active: true}

	assert.True(t, active.Matches("ready"))
	assert.True(t, active.Matches("ready.dirty"))
	assert.True(t, active.Matches("ready.dirty.active"))
	assert.False(t, active.Matches("ready.pristine"))
	assert.False(t, active.Matches("uninitialized"))
	assert.False(t, active.Matches("ready.dirty.active.more"))

	pristine := StateValue{Phase: PhaseReady}
	assert.True(t, pristine.Matches("ready"))
	assert.False(t, pristine.Matches("ready.dirty"))

	assert.False(t, StateValue{}.Matches("ready"))
}
