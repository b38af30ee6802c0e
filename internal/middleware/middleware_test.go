package middleware

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"rodeo-drive-api/internal/auth"
	"rodeo-drive-api/internal/rpc"
)

const (
	testSecret = "test-secret"
	testAdmin  = "boss@rodeo.test"
)

func bearer(t *testing.T, email string) string {
	t.Helper()
	tok, err := auth.MakeToken("u-1", email, testSecret)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	return "Bearer " + tok
}

func callGate(t *testing.T, method, authz string) (context.Context, error) {
	t.Helper()
	ctx := context.Background()
	if authz != "" {
		ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", authz))
	}
	var seen context.Context
	info := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(method)}
	_, err := NewGate(testSecret, testAdmin).Unary()(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		seen = ctx
		return "ok", nil
	})
	return seen, err
}

func TestGateOpenMethods(t *testing.T) {
	ctx, err := callGate(t, "CreateMessage", "")
	if err != nil {
		t.Fatalf("anonymous CreateMessage: %v", err)
	}
	if Email(ctx) != "" {
		t.Fatalf("anonymous call got email %q", Email(ctx))
	}

	ctx, err = callGate(t, "CreateMessage", bearer(t, "ann@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if Email(ctx) != "ann@example.com" || UserID(ctx) != "u-1" {
		t.Fatalf("identity not attached: %q %q", UserID(ctx), Email(ctx))
	}

	if _, err := callGate(t, "Login", "Bearer garbage"); err != nil {
		t.Fatalf("bad token on open method should pass: %v", err)
	}
}

func TestGateAdminMethods(t *testing.T) {
	cases := []struct {
		name  string
		authz string
		code  codes.Code
	}{
		{"no token", "", codes.Unauthenticated},
		{"bad token", "Bearer nope", codes.Unauthenticated},
		{"not admin", bearer(t, "ann@example.com"), codes.PermissionDenied},
		{"admin", bearer(t, testAdmin), codes.OK},
		{"admin mixed case", bearer(t, " Boss@Rodeo.TEST "), codes.OK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := callGate(t, "ListAppointments", tc.authz)
			if got := status.Code(err); got != tc.code {
				t.Fatalf("code = %v, want %v", got, tc.code)
			}
		})
	}
}

func TestGateUnknownMethodNeedsToken(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/rodeo.v1.BookingService/Nope"}
	_, err := NewGate(testSecret, testAdmin).Unary()(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("got %v", err)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	ic := RateLimit(rl)
	info := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod("Login")}
	h := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	p := &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 4000}}
	ctx := peer.NewContext(context.Background(), p)
	for i := 0; i < 2; i++ {
		if _, err := ic(ctx, nil, info, h); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if _, err := ic(ctx, nil, info, h); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("third call: %v", err)
	}

	// same host, other port shares the bucket
	p2 := &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 5000}}
	if _, err := ic(peer.NewContext(context.Background(), p2), nil, info, h); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("other port: %v", err)
	}

	p3 := &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.0.0.2"), Port: 4000}}
	if _, err := ic(peer.NewContext(context.Background(), p3), nil, info, h); err != nil {
		t.Fatalf("other client: %v", err)
	}

	// reads are not limited
	list := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod("ListMessages")}
	if _, err := ic(ctx, nil, list, h); err != nil {
		t.Fatalf("list limited: %v", err)
	}
}

func TestRateLimiterSweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Allow("a")
	rl.clients["a"].seen = time.Now().Add(-time.Hour)
	rl.Allow("b")
	rl.sweep(time.Minute)
	if _, ok := rl.clients["a"]; ok {
		t.Fatal("stale client kept")
	}
	if _, ok := rl.clients["b"]; !ok {
		t.Fatal("fresh client dropped")
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) grpc.UnaryServerInterceptor {
		return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
			order = append(order, name)
			return next(ctx, req)
		}
	}
	_, err := Chain(mk("a"), mk("b"))(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		order = append(order, "h")
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "h" {
		t.Fatalf("order = %v", order)
	}
}
