package nbi

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/signalsfoundry/linkbudget/internal/logging"
	"github.com/signalsfoundry/linkbudget/internal/observability"
)

// NewServer builds a gRPC server with LinkBudgetService registered and the
// request-ID, tracing and metrics interceptors chained in that order. A
// nil collector skips RPC metrics.
func NewServer(svc LinkBudgetServiceServer, log logging.Logger, collector *observability.Collector, extra ...grpc.ServerOption) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{
		RequestIDUnaryServerInterceptor(log),
		TracingUnaryServerInterceptor(),
	}
	if collector != nil {
		interceptors = append(interceptors, collector.UnaryServerInterceptor())
	}

	opts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors...),
	}
	opts = append(opts, extra...)

	server := grpc.NewServer(opts...)
	RegisterLinkBudgetServiceServer(server, svc)
	return server
}
