package remote

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/auth"
)

// DialGRPC opens a channel to the order backend. Calls made over it carry the
// session's bearer token in their metadata.
func DialGRPC(addr string, tokens auth.TokenSource, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	base := []grpc.DialOption{
		// Plaintext; TLS is terminated by the gateway in front of the backend.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if tokens != nil {
		base = append(base, grpc.WithUnaryInterceptor(auth.NewUnaryClientInterceptor(tokens)))
	}
	conn, err := grpc.NewClient(addr, append(base, opts...)...)
	if err != nil {
		return nil, apperr.Network(fmt.Errorf("dial %s: %w", addr, err))
	}
	return conn, nil
}

// HealthCheck asks the standard health service whether service is serving.
// An empty service name checks the server as a whole.
func HealthCheck(ctx context.Context, conn grpc.ClientConnInterface, service string) error {
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return apperr.Classify(err)
	}
	if s := resp.GetStatus(); s != healthpb.HealthCheckResponse_SERVING {
		return apperr.Network(fmt.Errorf("service %q is %s", service, s))
	}
	return nil
}
