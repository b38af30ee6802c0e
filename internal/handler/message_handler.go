package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"rodeo-drive-api/internal/auth"
	"rodeo-drive-api/internal/middleware"
	"rodeo-drive-api/internal/model"
	"rodeo-drive-api/internal/rpc"
	"rodeo-drive-api/internal/store"
)

func (h *Handler) CreateMessage(ctx context.Context, req *rpc.CreateMessageRequest) (*rpc.MessageResponse, error) {
	form := messageForm{Content: strings.TrimSpace(req.Content)}
	if err := check(form); err != nil {
		return nil, err
	}

	m := &model.Message{ID: uuid.New().String(), Content: form.Content}
	if email := middleware.Email(ctx); email != "" {
		m.AuthorEmail = &email
	}
	if err := h.repo.CreateMessage(ctx, m); err != nil {
		return nil, h.internal("create message", err)
	}
	return &rpc.MessageResponse{Message: messageProto(m, true)}, nil
}

// ListMessages is public. Author and timestamps are only shown to the admin.
func (h *Handler) ListMessages(ctx context.Context, _ *rpc.ListMessagesRequest) (*rpc.ListMessagesResponse, error) {
	msgs, err := h.repo.ListMessages(ctx)
	if err != nil {
		return nil, h.internal("list messages", err)
	}
	full := auth.IsAdmin(middleware.Email(ctx), h.admin)

	out := make([]*rpc.Message, len(msgs))
	for i := range msgs {
		out[i] = messageProto(&msgs[i], full)
	}
	return &rpc.ListMessagesResponse{Messages: out}, nil
}

func (h *Handler) ReplyMessage(ctx context.Context, req *rpc.ReplyMessageRequest) (*rpc.MessageResponse, error) {
	if err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	form := replyForm{ID: strings.TrimSpace(req.Id), Reply: strings.TrimSpace(req.Reply)}
	if err := check(form); err != nil {
		return nil, err
	}

	m, err := h.repo.ReplyMessage(ctx, form.ID, form.Reply)
	if errors.Is(err, store.ErrNotFound) {
		return nil, status.Error(codes.NotFound, "message not found")
	}
	if err != nil {
		return nil, h.internal("reply message", err)
	}
	return &rpc.MessageResponse{Message: messageProto(m, true)}, nil
}

func messageProto(m *model.Message, full bool) *rpc.Message {
	p := &rpc.Message{Id: m.ID, Content: m.Content, Reply: m.Reply}
	if !full {
		return p
	}
	if m.AuthorEmail != nil {
		p.AuthorEmail = *m.AuthorEmail
	}
	if !m.CreatedAt.IsZero() {
		p.CreatedAt = timestamppb.New(m.CreatedAt)
	}
	if !m.UpdatedAt.IsZero() {
		p.UpdatedAt = timestamppb.New(m.UpdatedAt)
	}
	return p
}
