package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"rodeo-drive-api/internal/auth"
	"rodeo-drive-api/internal/model"
	"rodeo-drive-api/internal/rpc"
	"rodeo-drive-api/internal/store"
)

func (h *Handler) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	form := registrationForm{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
	}
	if err := check(form); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, h.internal("hash password", err)
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        form.Email,
		PasswordHash: hash,
		Name:         form.Name,
	}

	if err := h.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// dup email, but don't reveal that
			return nil, status.Error(codes.AlreadyExists, "registration failed")
		}
		return nil, h.internal("create user", err)
	}

	tok, err := auth.MakeToken(u.ID, u.Email, h.secret)
	if err != nil {
		return nil, h.internal("make token", err)
	}

	return &rpc.RegisterResponse{UserId: u.ID, Token: tok}, nil
}

func (h *Handler) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password required")
	}

	u, err := h.repo.UserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Printf("user by email: %v", err)
		}
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	tok, err := auth.MakeToken(u.ID, u.Email, h.secret)
	if err != nil {
		return nil, h.internal("make token", err)
	}

	return &rpc.LoginResponse{
		Token:   tok,
		UserId:  u.ID,
		Name:    u.Name,
		IsAdmin: auth.IsAdmin(u.Email, h.admin),
	}, nil
}

// Session is an access/refresh pair handed to cookie-based clients.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// StartSession issues a refresh token for a user who just logged in.
func (h *Handler) StartSession(ctx context.Context, userID string) (string, error) {
	rt, err := auth.NewRefreshToken(time.Now())
	if err != nil {
		return "", h.internal("generate refresh token", err)
	}
	if _, err := h.repo.CreateRefreshToken(ctx, userID, rt.Hash, rt.ExpiresAt); err != nil {
		return "", h.internal("store refresh token", err)
	}
	return rt.Raw, nil
}

// Refresh trades a refresh token for a new pair. Presenting a token that was
// already rotated revokes every session of its owner.
func (h *Handler) Refresh(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		return nil, status.Error(codes.Unauthenticated, "no refresh token")
	}
	rt, err := h.repo.GetRefreshTokenByHash(ctx, auth.HashRefreshToken(raw))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Printf("refresh token lookup: %v", err)
		}
		return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
	}
	if rt.Revoked {
		return nil, h.reused(ctx, rt.UserID)
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, status.Error(codes.Unauthenticated, "refresh token expired")
	}

	u, err := h.repo.UserByID(ctx, rt.UserID)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
	}

	next, err := auth.NewRefreshToken(time.Now())
	if err != nil {
		return nil, h.internal("generate refresh token", err)
	}
	err = h.repo.RotateRefreshToken(ctx, rt.ID, uuid.New().String(), u.ID, next.Hash, next.ExpiresAt)
	if errors.Is(err, store.ErrRevoked) {
		// another refresh won the race with the same token
		return nil, h.reused(ctx, rt.UserID)
	}
	if err != nil {
		return nil, h.internal("rotate refresh token", err)
	}

	tok, err := auth.MakeToken(u.ID, u.Email, h.secret)
	if err != nil {
		return nil, h.internal("make token", err)
	}
	return &Session{UserID: u.ID, AccessToken: tok, RefreshToken: next.Raw}, nil
}

// reused ends every session of a user whose refresh token was presented
// after rotation.
func (h *Handler) reused(ctx context.Context, userID string) error {
	if err := h.repo.RevokeAllRefreshTokens(ctx, userID); err != nil {
		h.log.Printf("revoke after reuse: %v", err)
	}
	return status.Error(codes.Unauthenticated, "invalid refresh token")
}

// Logout revokes all refresh tokens of the token's owner. Unknown tokens
// are ignored.
func (h *Handler) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	rt, err := h.repo.GetRefreshTokenByHash(ctx, auth.HashRefreshToken(raw))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return h.internal("refresh token lookup", err)
	}
	if err := h.repo.RevokeAllRefreshTokens(ctx, rt.UserID); err != nil {
		return h.internal("revoke refresh tokens", err)
	}
	return nil
}
