package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"rodeo-drive-api/internal/model"
	"rodeo-drive-api/internal/notify"
	"rodeo-drive-api/internal/rpc"
)

// booking validates the form fields and returns an unsaved record.
func booking(in *rpc.AppointmentInput) (*model.Appointment, error) {
	form := bookingForm{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
		Date:  strings.TrimSpace(in.Date),
		Time:  strings.TrimSpace(in.Time),
	}
	if err := check(form); err != nil {
		return nil, err
	}
	return &model.Appointment{
		Name:  form.Name,
		Email: form.Email,
		Phone: form.Phone,
		Date:  form.Date,
		Time:  form.Time,
	}, nil
}

func (h *Handler) CreateAppointment(ctx context.Context, req *rpc.AppointmentInput) (*rpc.CreateAppointmentResponse, error) {
	apt, err := booking(req)
	if err != nil {
		return nil, err
	}
	apt.ID = uuid.New().String()

	if err := h.repo.CreateAppointment(ctx, apt); err != nil {
		return nil, h.internal("create appointment", err)
	}

	// the record exists now; notification failures are only logged
	sent := true
	if err := h.mailer.Send(ctx, notify.AppointmentEmail(h.inbox, apt)); err != nil {
		sent = false
		h.log.Printf("appointment %s: email: %v", apt.ID, err)
	}
	if err := h.texter.SendText(ctx, apt.Phone, notify.AppointmentText(apt)); err != nil && !errors.Is(err, notify.ErrNotConfigured) {
		h.log.Printf("appointment %s: text: %v", apt.ID, err)
	}

	return &rpc.CreateAppointmentResponse{Appointment: toProto(apt), EmailSent: sent}, nil
}

func (h *Handler) ListAppointments(ctx context.Context, _ *rpc.ListAppointmentsRequest) (*rpc.ListAppointmentsResponse, error) {
	if err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}

	apts, err := h.repo.ListAppointments(ctx)
	if err != nil {
		return nil, h.internal("list appointments", err)
	}

	out := make([]*rpc.Appointment, len(apts))
	for i := range apts {
		out[i] = toProto(&apts[i])
	}
	return &rpc.ListAppointmentsResponse{Appointments: out}, nil
}

// SendAppointmentEmail only notifies; nothing is stored.
func (h *Handler) SendAppointmentEmail(ctx context.Context, req *rpc.AppointmentInput) (*rpc.SendAppointmentEmailResponse, error) {
	apt, err := booking(req)
	if err != nil {
		return nil, err
	}
	if err := h.mailer.Send(ctx, notify.AppointmentEmail(h.inbox, apt)); err != nil {
		h.log.Printf("send appointment email: %v", err)
		return nil, status.Error(codes.Internal, "failed to send email")
	}
	return &rpc.SendAppointmentEmailResponse{Success: true}, nil
}

func toProto(a *model.Appointment) *rpc.Appointment {
	p := &rpc.Appointment{
		Id:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Phone: a.Phone,
		Date:  a.Date,
		Time:  a.Time,
	}
	if !a.CreatedAt.IsZero() {
		p.CreatedAt = timestamppb.New(a.CreatedAt)
	}
	return p
}
