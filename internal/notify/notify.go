// Package notify sends outbound notifications: transactional email to the
// shop inbox and text confirmations to customers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rodeo-drive-api/internal/model"
)

var ErrNotConfigured = errors.New("notifier not configured")

type Email struct {
	To      []string
	Subject string
	Body    string
}

// Mailer sends one email per call. Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// Texter sends a short text message to a phone number.
type Texter interface {
	SendText(ctx context.Context, to, body string) error
}

// AppointmentEmail renders the booking notification for the shop inbox.
func AppointmentEmail(to string, a *model.Appointment) Email {
	return Email{
		To:      []string{to},
		Subject: "Nouvelle réservation - Rodeo Drive",
		Body: fmt.Sprintf("Nouveau rendez-vous:\n\nNom: %s\nEmail: %s\nTéléphone: %s\nDate: %s\nHeure: %s",
			a.Name, a.Email, a.Phone, a.Date, a.Time),
	}
}

// AppointmentText is the customer-facing confirmation.
func AppointmentText(a *model.Appointment) string {
	return fmt.Sprintf("Rodeo Drive: thank you %s, we received your booking for %s at %s. Our team will contact you to confirm.",
		firstName(a.Name), a.Date, a.Time)
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}

// Nop drops everything. Used when no provider is configured so callers
// don't need nil checks.
type Nop struct{}

func (Nop) Send(context.Context, Email) error              { return ErrNotConfigured }
func (Nop) SendText(context.Context, string, string) error { return ErrNotConfigured }
