package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rodeo-drive-api/internal/auth"
	"rodeo-drive-api/internal/rpc"
)

type ctxKey string

const (
	UserIDKey ctxKey = "uid"
	EmailKey  ctxKey = "email"
)

// callable without a token; a valid token still attaches the caller
var open = map[string]bool{
	rpc.FullMethod("Register"):             true,
	rpc.FullMethod("Login"):                true,
	rpc.FullMethod("CreateAppointment"):    true,
	rpc.FullMethod("SendAppointmentEmail"): true,
	rpc.FullMethod("CreateMessage"):        true,
	rpc.FullMethod("ListMessages"):         true,
}

// behind the admin gate
var adminOnly = map[string]bool{
	rpc.FullMethod("ListAppointments"): true,
	rpc.FullMethod("ReplyMessage"):     true,
}

// Gate checks tokens and the admin email.
type Gate struct {
	secret     string
	adminEmail string
}

func NewGate(secret, adminEmail string) *Gate {
	return &Gate{secret: secret, adminEmail: adminEmail}
}

// Identify parses raw (with or without "Bearer ") and attaches the caller to ctx.
func (g *Gate) Identify(ctx context.Context, raw string) (context.Context, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return ctx, status.Error(codes.Unauthenticated, "no token")
	}
	claims, err := auth.ParseToken(raw, g.secret)
	if err != nil {
		return ctx, status.Error(codes.Unauthenticated, "bad token")
	}
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	return ctx, nil
}

// RequireAdmin passes only when ctx carries the admin's identity.
func (g *Gate) RequireAdmin(ctx context.Context) error {
	email, ok := ctx.Value(EmailKey).(string)
	if !ok {
		return status.Error(codes.Unauthenticated, "login required")
	}
	if !auth.IsAdmin(email, g.adminEmail) {
		return status.Error(codes.PermissionDenied, "admin only")
	}
	return nil
}

func (g *Gate) IsAdmin(ctx context.Context) bool {
	return g.RequireAdmin(ctx) == nil
}

// Authorize applies the per-method policy.
func (g *Gate) Authorize(ctx context.Context, fullMethod, raw string) (context.Context, error) {
	authed, err := g.Identify(ctx, raw)
	if open[fullMethod] {
		// anonymous is fine; a broken token just isn't attached
		return authed, nil
	}
	if err != nil {
		return ctx, err
	}
	if adminOnly[fullMethod] {
		if err := g.RequireAdmin(authed); err != nil {
			return ctx, err
		}
	}
	return authed, nil
}

func (g *Gate) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		// token from Authorization: Bearer <jwt>
		raw := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get("authorization"); len(vals) > 0 {
				raw = vals[0]
			}
		}
		ctx, err := g.Authorize(ctx, info.FullMethod, raw)
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

// UserID and Email read the caller attached by the gate; empty when anonymous.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(UserIDKey).(string)
	return v
}

func Email(ctx context.Context) string {
	v, _ := ctx.Value(EmailKey).(string)
	return v
}
