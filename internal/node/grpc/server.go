// Package grpc exposes the node services over the FlipNode gRPC service.
package grpc

import (
	"context"
	"crypto/ed25519"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/flipkeeper/internal/logging"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
	"github.com/dmitrijs2005/flipkeeper/internal/node/services"
	"github.com/dmitrijs2005/flipkeeper/internal/rpc"
)

type AuthService interface {
	Authenticate(ctx context.Context, address string, pub ed25519.PublicKey, timestamp int64, signature []byte) (*services.Session, error)
}

type FlipService interface {
	Identity(ctx context.Context, address string) (*services.IdentityView, error)
	Submit(ctx context.Context, address string, payload, nonce []byte, pair *[2]int) (string, error)
	Delete(ctx context.Context, address, hash string) error
}

type EpochService interface {
	Current(ctx context.Context) (*models.Epoch, error)
}

type GRPCServer struct {
	address   string
	auth      AuthService
	flips     FlipService
	epochs    EpochService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, as AuthService, fs FlipService, es EpochService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		auth:      as,
		flips:     fs,
		epochs:    es,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.Register(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
