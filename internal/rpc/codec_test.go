package rpc

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestEncodeDecode_SubmitFlip(t *testing.T) {
	pair := [2]int{3, 17}
	in := SubmitFlipRequest{
		Payload: []byte{0x00, 0xff, 0x10},
		Nonce:   []byte("nonce-123456"),
		Pair:    &pair,
	}

	s, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, s.Fields, "payload")

	var out SubmitFlipRequest
	require.NoError(t, Decode(s, &out))
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecode_Identity(t *testing.T) {
	in := IdentityResponse{
		Address:        "0xabc",
		State:          "Verified",
		Flips:          []string{"0x1", "0x2"},
		RequiredFlips:  3,
		AvailableFlips: 5,
		Keywords:       map[string][]Keyword{"0x1": {{Name: "cat"}, {Name: "rain", Desc: "water"}}},
	}

	var out IdentityResponse
	require.NoError(t, Decode(MustEncode(in), &out))
	assert.Equal(t, in, out)
}

func TestEncodeDecode_Time(t *testing.T) {
	next := time.Date(2026, 10, 20, 13, 30, 0, 0, time.UTC)
	var out EpochResponse
	require.NoError(t, Decode(MustEncode(EpochResponse{Epoch: 42, NextValidation: next}), &out))
	assert.Equal(t, 42, out.Epoch)
	assert.True(t, next.Equal(out.NextValidation))
}

func TestEncode_Nil(t *testing.T) {
	s, err := Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Fields)
}

func TestEncode_NotAnObject(t *testing.T) {
	_, err := Encode([]int{1, 2})
	assert.Error(t, err)
}

func TestDecode_NilStruct(t *testing.T) {
	var out PingResponse
	require.NoError(t, Decode(nil, &out))
	assert.Empty(t, out.Status)
}

func TestDecode_TypeMismatch(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"epoch": "not a number"})
	require.NoError(t, err)

	var out EpochResponse
	assert.Error(t, Decode(s, &out))
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/flipkeeper.node.FlipNode/SubmitFlip", FullMethod(MethodSubmitFlip))
}
