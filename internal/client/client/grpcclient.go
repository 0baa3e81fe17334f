package client

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/cryptox"
	"github.com/dmitrijs2005/flipkeeper/internal/rpc"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	// cc is what calls go through; conn in production
	cc  grpc.ClientConnInterface
	now func() time.Time

	mu          sync.RWMutex
	accessToken string
	key         ed25519.PrivateKey
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) signingKey() ed25519.PrivateKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	err := invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if method == rpc.FullMethod(rpc.MethodAuthenticate) {
		return err
	}

	key := s.signingKey()
	if key == nil {
		return err
	}
	if authErr := s.authenticate(ctx, key); authErr != nil {
		return authErr
	}

	return invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout, now: time.Now}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.cc = conn
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) invoke(ctx context.Context, method string, req, resp any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := rpc.Invoke(ctx, s.cc, method, req, resp); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	var resp rpc.PingResponse
	if err := s.invoke(ctx, rpc.MethodPing, nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Authenticate(ctx context.Context, key ed25519.PrivateKey) error {
	if err := s.authenticate(ctx, key); err != nil {
		return err
	}
	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
	return nil
}

func (s *GRPCClient) authenticate(ctx context.Context, key ed25519.PrivateKey) error {
	ts := s.now().Unix()
	address, sig := cryptox.SignAuth(key, ts)
	req := rpc.AuthenticateRequest{
		Address:   address,
		PublicKey: key.Public().(ed25519.PublicKey),
		Timestamp: ts,
		Signature: sig,
	}

	var resp rpc.AuthenticateResponse
	if err := s.invoke(ctx, rpc.MethodAuthenticate, req, &resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.mu.Unlock()
	return nil
}

func (s *GRPCClient) Identity(ctx context.Context) (models.Identity, error) {
	var resp rpc.IdentityResponse
	if err := s.invoke(ctx, rpc.MethodIdentity, nil, &resp); err != nil {
		return models.Identity{}, err
	}

	id := models.Identity{
		Address:        resp.Address,
		State:          models.IdentityStatus(resp.State),
		Flips:          resp.Flips,
		RequiredFlips:  resp.RequiredFlips,
		AvailableFlips: resp.AvailableFlips,
	}
	if len(resp.Keywords) > 0 {
		id.Keywords = make(map[string][]models.Keyword, len(resp.Keywords))
		for hash, words := range resp.Keywords {
			kw := make([]models.Keyword, 0, len(words))
			for _, w := range words {
				kw = append(kw, models.Keyword{Name: w.Name, Desc: w.Desc})
			}
			id.Keywords[hash] = kw
		}
	}
	return id, nil
}

func (s *GRPCClient) Epoch(ctx context.Context) (models.Epoch, error) {
	var resp rpc.EpochResponse
	if err := s.invoke(ctx, rpc.MethodEpoch, nil, &resp); err != nil {
		return models.Epoch{}, err
	}
	return models.Epoch{Epoch: resp.Epoch, NextValidation: resp.NextValidation}, nil
}

func (s *GRPCClient) SubmitFlip(ctx context.Context, req rpc.SubmitFlipRequest) (string, error) {
	var resp rpc.SubmitFlipResponse
	if err := s.invoke(ctx, rpc.MethodSubmitFlip, req, &resp); err != nil {
		return "", err
	}
	return resp.Hash, nil
}

func (s *GRPCClient) DeleteFlip(ctx context.Context, hash string) error {
	return s.invoke(ctx, rpc.MethodDeleteFlip, rpc.DeleteFlipRequest{Hash: hash}, nil)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrorNotFound)
	case codes.FailedPrecondition, codes.ResourceExhausted, codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
