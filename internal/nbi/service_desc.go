package nbi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "signalsfoundry.linkbudget.v1.LinkBudgetService"

const (
	EvaluateFullMethod         = "/" + ServiceName + "/Evaluate"
	EvaluateScenarioFullMethod = "/" + ServiceName + "/EvaluateScenario"
	ListScenariosFullMethod    = "/" + ServiceName + "/ListScenarios"
)

// LinkBudgetServiceServer is the server API for LinkBudgetService. Every
// message is a google.protobuf.Struct carrying the JSON shape of the
// scenario and results types.
type LinkBudgetServiceServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EvaluateScenario(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListScenarios(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterLinkBudgetServiceServer registers srv on s.
func RegisterLinkBudgetServiceServer(s grpc.ServiceRegistrar, srv LinkBudgetServiceServer) {
	s.RegisterService(&LinkBudgetServiceDesc, srv)
}

func linkBudgetHandler(
	fullMethod string,
	call func(LinkBudgetServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LinkBudgetServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LinkBudgetServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LinkBudgetServiceDesc is the grpc.ServiceDesc for LinkBudgetService.
var LinkBudgetServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LinkBudgetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    linkBudgetHandler(EvaluateFullMethod, LinkBudgetServiceServer.Evaluate),
		},
		{
			MethodName: "EvaluateScenario",
			Handler:    linkBudgetHandler(EvaluateScenarioFullMethod, LinkBudgetServiceServer.EvaluateScenario),
		},
		{
			MethodName: "ListScenarios",
			Handler:    linkBudgetHandler(ListScenariosFullMethod, LinkBudgetServiceServer.ListScenarios),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "signalsfoundry/linkbudget/v1/link_budget.proto",
}
