package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
	"github.com/dmitrijs2005/flipkeeper/internal/node/services"
	"github.com/dmitrijs2005/flipkeeper/internal/rpc"
)

func signedIn(address string) context.Context {
	return context.WithValue(context.Background(), addressKey, address)
}

func TestHandler_Identity(t *testing.T) {
	s, _, flips, _ := newTestServer()
	flips.view = &services.IdentityView{
		Identity: &models.Identity{Address: "0xabc", State: models.IdentityStateVerified, RequiredFlips: 3, AvailableFlips: 5},
		Flips:    []string{"0x1", "0x2"},
		Keywords: map[string][]models.Keyword{"0x1": {{Name: "apple"}, {Name: "door", Desc: "d"}}},
	}

	out, err := s.Identity(signedIn("0xabc"), nil)
	require.NoError(t, err)

	var resp rpc.IdentityResponse
	require.NoError(t, rpc.Decode(out, &resp))
	assert.Equal(t, rpc.IdentityResponse{
		Address:        "0xabc",
		State:          "Verified",
		Flips:          []string{"0x1", "0x2"},
		RequiredFlips:  3,
		AvailableFlips: 5,
		Keywords:       map[string][]rpc.Keyword{"0x1": {{Name: "apple"}, {Name: "door", Desc: "d"}}},
	}, resp)
	assert.Equal(t, "0xabc", flips.lastAddress)

	_, err = s.Identity(context.Background(), nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestHandler_SubmitAndDelete(t *testing.T) {
	s, _, flips, _ := newTestServer()
	ctx := signedIn("0xabc")

	req := rpc.MustEncode(rpc.SubmitFlipRequest{Payload: []byte("p"), Nonce: []byte("n"), Pair: &[2]int{3, 4}})
	out, err := s.SubmitFlip(ctx, req)
	require.NoError(t, err)

	var resp rpc.SubmitFlipResponse
	require.NoError(t, rpc.Decode(out, &resp))
	assert.NotEmpty(t, resp.Hash)
	assert.Equal(t, []byte("p"), flips.lastPayload)
	assert.Equal(t, &[2]int{3, 4}, flips.lastPair)

	_, err = s.DeleteFlip(ctx, rpc.MustEncode(rpc.DeleteFlipRequest{Hash: resp.Hash}))
	require.NoError(t, err)
	assert.Equal(t, []string{resp.Hash}, flips.deleted)
}

func TestHandler_Epoch(t *testing.T) {
	s, _, _, epochs := newTestServer()

	out, err := s.Epoch(context.Background(), nil)
	require.NoError(t, err)
	var resp rpc.EpochResponse
	require.NoError(t, rpc.Decode(out, &resp))
	assert.Equal(t, 7, resp.Epoch)
	assert.True(t, epochs.epoch.NextValidation.Equal(resp.NextValidation))

	epochs.err = errors.New("db down")
	_, err = s.Epoch(context.Background(), nil)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestToStatus(t *testing.T) {
	s, _, _, _ := newTestServer()
	cases := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrorForbidden, codes.PermissionDenied},
		{fmt.Errorf("flip: %w", common.ErrorNotFound), codes.NotFound},
		{common.ErrorCannotSubmitFlips, codes.FailedPrecondition},
		{common.ErrorFlipLimitReached, codes.ResourceExhausted},
		{common.ErrorInvalidFlip, codes.InvalidArgument},
		{common.ErrorAlreadyExists, codes.InvalidArgument},
		{errors.New("boom"), codes.Internal},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, status.Code(s.toStatus(context.Background(), c.err)), c.err.Error())
	}

	assert.Equal(t, "internal error", status.Convert(s.toStatus(context.Background(), errors.New("secret detail"))).Message())
}
