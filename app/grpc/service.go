package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "hydration.v1.QuickAccess"

	RedeemMethod = "/" + ServiceName + "/Redeem"
	IssueMethod  = "/" + ServiceName + "/Issue"
	RevokeMethod = "/" + ServiceName + "/Revoke"
	TodayMethod  = "/" + ServiceName + "/Today"
)

// QuickAccessServer is served over protobuf well-known types. Redeem takes a
// Struct built by NewRedeemRequest; every response is a Struct with a single
// IntakeField, AccountField or StatsField entry.
type QuickAccessServer interface {
	Redeem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Issue(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Revoke(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Today(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterQuickAccessServer(registrar gogrpc.ServiceRegistrar, srv QuickAccessServer) {
	registrar.RegisterService(&quickAccessServiceDesc, srv)
}

var quickAccessServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QuickAccessServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{
			MethodName: "Redeem",
			Handler: unaryHandler(RedeemMethod, func(srv QuickAccessServer, ctx context.Context, req *structpb.Struct) (any, error) {
				return srv.Redeem(ctx, req)
			}),
		},
		{
			MethodName: "Issue",
			Handler: unaryHandler(IssueMethod, func(srv QuickAccessServer, ctx context.Context, req *emptypb.Empty) (any, error) {
				return srv.Issue(ctx, req)
			}),
		},
		{
			MethodName: "Revoke",
			Handler: unaryHandler(RevokeMethod, func(srv QuickAccessServer, ctx context.Context, req *emptypb.Empty) (any, error) {
				return srv.Revoke(ctx, req)
			}),
		},
		{
			MethodName: "Today",
			Handler: unaryHandler(TodayMethod, func(srv QuickAccessServer, ctx context.Context, req *emptypb.Empty) (any, error) {
				return srv.Today(ctx, req)
			}),
		},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "hydration/v1/quick_access",
}

// unaryHandler adapts a typed method to the grpc.MethodDesc handler shape.
func unaryHandler[Req any](fullMethod string, call func(QuickAccessServer, context.Context, *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(QuickAccessServer), ctx, req)
		}
		info := &gogrpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(QuickAccessServer), ctx, req.(*Req))
		}
		return interceptor(ctx, req, info, handler)
	}
}
