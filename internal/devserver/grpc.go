package devserver

import (
	"context"
	"log/slog"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

// StartGRPC serves the standard health service on addr and returns the bound
// address together with a shutdown function. Every service name handed in is
// reported as SERVING; the empty name covers the whole server.
func StartGRPC(addr string, log *slog.Logger, services ...string) (net.Addr, func(context.Context) error, error) {
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(logCalls(log)))
	hs := health.NewServer()
	for _, name := range services {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()

	return lis.Addr(), func(ctx context.Context) error {
		hs.Shutdown()
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}

func logCalls(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		bearer := false
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			for _, v := range md.Get("authorization") {
				if strings.HasPrefix(v, "Bearer ") {
					bearer = true
				}
			}
		}
		resp, err := handler(ctx, req)
		if log != nil {
			log.Debug("grpc call", slog.String("method", info.FullMethod), slog.Bool("bearer", bearer), slog.Any("err", err))
		}
		return resp, err
	}
}
