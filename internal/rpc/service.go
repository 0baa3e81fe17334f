// Package rpc describes the FlipNode gRPC service shared by the client and
// the node.
//
// Messages travel as google.protobuf.Struct. Each request and response has
// a Go type in this package; Encode and Decode convert between the two
// through their JSON form.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "flipkeeper.node.FlipNode"

const (
	MethodPing         = "Ping"
	MethodAuthenticate = "Authenticate"
	MethodIdentity     = "Identity"
	MethodEpoch        = "Epoch"
	MethodSubmitFlip   = "SubmitFlip"
	MethodDeleteFlip   = "DeleteFlip"
)

// FullMethod returns the gRPC method path, e.g. "/flipkeeper.node.FlipNode/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Handler is implemented by the node.
type Handler interface {
	Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Authenticate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Identity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Epoch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SubmitFlip(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteFlip(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Handler)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, Handler.Ping),
		unary(MethodAuthenticate, Handler.Authenticate),
		unary(MethodIdentity, Handler.Identity),
		unary(MethodEpoch, Handler.Epoch),
		unary(MethodSubmitFlip, Handler.SubmitFlip),
		unary(MethodDeleteFlip, Handler.DeleteFlip),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flipkeeper/node.proto",
}

// Register attaches h to s.
func Register(s grpc.ServiceRegistrar, h Handler) {
	s.RegisterService(&ServiceDesc, h)
}

type call func(Handler, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			h := srv.(Handler)
			if interceptor == nil {
				return fn(h, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(h, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Invoke calls method on conn, encoding req and decoding the reply into resp.
// Either may be nil.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := Encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return Decode(out, resp)
}
