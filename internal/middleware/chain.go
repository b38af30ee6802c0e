package middleware

import (
	"context"
	"net"

	"google.golang.org/grpc"
)

// Chain folds interceptors into one, first listed runs outermost. The
// grpc-web bridge uses it to apply the same policy as the gRPC server.
func Chain(ics ...grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, final grpc.UnaryHandler) (any, error) {
		next := final
		for i := len(ics) - 1; i >= 0; i-- {
			ic, h := ics[i], next
			next = func(ctx context.Context, req any) (any, error) {
				return ic(ctx, req, info, h)
			}
		}
		return next(ctx, req)
	}
}

// hostOnly strips the port so one client maps to one bucket.
func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
