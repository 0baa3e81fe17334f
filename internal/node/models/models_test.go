package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentityState(t *testing.T) {
	st, err := ParseIdentityState("Verified")
	require.NoError(t, err)
	assert.Equal(t, IdentityStateVerified, st)

	_, err = ParseIdentityState("verified")
	assert.Error(t, err)
}

func TestIdentityState_CanSubmitFlips(t *testing.T) {
	allowed := map[IdentityState]bool{
		IdentityStateVerified: true,
		IdentityStateHuman:    true,
		IdentityStateNewbie:   true,
	}
	for st := range identityStates {
		assert.Equal(t, allowed[st], st.CanSubmitFlips(), st)
	}
	assert.False(t, IdentityState("Bogus").CanSubmitFlips())
}
