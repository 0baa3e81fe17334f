package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/rpc"
)

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return rpc.MustEncode(rpc.PingResponse{Status: "OK"}), nil
}

func (s *GRPCServer) Authenticate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rpc.AuthenticateRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	sess, err := s.auth.Authenticate(ctx, in.Address, in.PublicKey, in.Timestamp, in.Signature)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Signed in", "address", in.Address)
	return rpc.MustEncode(rpc.AuthenticateResponse{AccessToken: sess.AccessToken, ExpiresAt: sess.ExpiresAt}), nil
}

func (s *GRPCServer) Identity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	address, ok := addressFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	view, err := s.flips.Identity(ctx, address)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := rpc.IdentityResponse{
		Address:        view.Identity.Address,
		State:          string(view.Identity.State),
		Flips:          view.Flips,
		RequiredFlips:  view.Identity.RequiredFlips,
		AvailableFlips: view.Identity.AvailableFlips,
	}
	if len(view.Keywords) > 0 {
		resp.Keywords = make(map[string][]rpc.Keyword, len(view.Keywords))
		for hash, words := range view.Keywords {
			kw := make([]rpc.Keyword, 0, len(words))
			for _, w := range words {
				kw = append(kw, rpc.Keyword{Name: w.Name, Desc: w.Desc})
			}
			resp.Keywords[hash] = kw
		}
	}
	return rpc.Encode(resp)
}

func (s *GRPCServer) Epoch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	e, err := s.epochs.Current(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return rpc.MustEncode(rpc.EpochResponse{Epoch: e.Epoch, NextValidation: e.NextValidation}), nil
}

func (s *GRPCServer) SubmitFlip(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	address, ok := addressFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	var in rpc.SubmitFlipRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	hash, err := s.flips.Submit(ctx, address, in.Payload, in.Nonce, in.Pair)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Flip submitted", "address", address, "hash", hash)
	return rpc.MustEncode(rpc.SubmitFlipResponse{Hash: hash}), nil
}

func (s *GRPCServer) DeleteFlip(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	address, ok := addressFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	var in rpc.DeleteFlipRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.flips.Delete(ctx, address, in.Hash); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Flip deleted", "address", address, "hash", in.Hash)
	return rpc.MustEncode(nil), nil
}

// toStatus maps service errors onto gRPC codes. Unknown errors are logged
// and hidden behind codes.Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorCannotSubmitFlips):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrorFlipLimitReached):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, common.ErrorInvalidFlip), errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
