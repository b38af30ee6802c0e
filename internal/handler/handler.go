package handler

import (
	"context"
	"log"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"rodeo-drive-api/internal/auth"
	"rodeo-drive-api/internal/middleware"
	"rodeo-drive-api/internal/notify"
	"rodeo-drive-api/internal/rpc"
	"rodeo-drive-api/internal/store"
)

var _ rpc.BookingServer = (*Handler)(nil)

// Options carries everything besides storage. Zero values are usable:
// notifiers default to notify.Nop and the logger to stderr.
type Options struct {
	Secret     string
	AdminEmail string
	// Inbox receives booking notifications.
	Inbox  string
	Mailer notify.Mailer
	Texter notify.Texter
	Logger *log.Logger
}

type Handler struct {
	repo   store.Repository
	secret string
	admin  string
	inbox  string
	mailer notify.Mailer
	texter notify.Texter
	log    *log.Logger
}

func New(repo store.Repository, opts Options) *Handler {
	h := &Handler{
		repo:   repo,
		secret: opts.Secret,
		admin:  opts.AdminEmail,
		inbox:  opts.Inbox,
		mailer: opts.Mailer,
		texter: opts.Texter,
		log:    opts.Logger,
	}
	if h.mailer == nil {
		h.mailer = notify.Nop{}
	}
	if h.texter == nil {
		h.texter = notify.Nop{}
	}
	if h.log == nil {
		h.log = log.New(os.Stderr, "handler: ", log.LstdFlags)
	}
	if h.inbox == "" {
		h.inbox = h.admin
	}
	return h
}

// requireAdmin repeats the gate check so every transport gets it.
func (h *Handler) requireAdmin(ctx context.Context) error {
	email := middleware.Email(ctx)
	if email == "" {
		return status.Error(codes.Unauthenticated, "login required")
	}
	if !auth.IsAdmin(email, h.admin) {
		return status.Error(codes.PermissionDenied, "admin only")
	}
	return nil
}

func (h *Handler) internal(what string, err error) error {
	h.log.Printf("%s: %v", what, err)
	return status.Error(codes.Internal, "internal error")
}
