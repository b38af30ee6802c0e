// Package digest mails the admin a daily summary of new bookings and
// unanswered messages.
package digest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"rodeo-drive-api/internal/model"
	"rodeo-drive-api/internal/notify"
	"rodeo-drive-api/internal/store"
)

const window = 24 * time.Hour

type Digest struct {
	repo     store.Repository
	mailer   notify.Mailer
	to       string
	schedule string
	cron     *cron.Cron
	logger   *log.Logger
	now      func() time.Time
}

func New(repo store.Repository, mailer notify.Mailer, to, schedule string, logger *log.Logger) *Digest {
	return &Digest{
		repo:     repo,
		mailer:   mailer,
		to:       to,
		schedule: schedule,
		cron:     cron.New(cron.WithLogger(cron.PrintfLogger(logger))),
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the job and starts the scheduler loop.
func (d *Digest) Start() error {
	_, err := d.cron.AddFunc(d.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sent, err := d.Run(ctx)
		switch {
		case err != nil:
			d.logger.Printf("digest: %v", err)
		case !sent:
			d.logger.Printf("digest: nothing to report")
		}
	})
	if err != nil {
		return fmt.Errorf("digest schedule %q: %w", d.schedule, err)
	}
	d.cron.Start()
	return nil
}

// Stop waits for a running job to finish.
func (d *Digest) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}

// Run sends one digest now. It reports false when there was nothing to send.
func (d *Digest) Run(ctx context.Context) (bool, error) {
	now := d.now()
	apts, err := d.repo.AppointmentsSince(ctx, now.Add(-window))
	if err != nil {
		return false, fmt.Errorf("recent appointments: %w", err)
	}
	msgs, err := d.repo.UnrepliedMessages(ctx)
	if err != nil {
		return false, fmt.Errorf("unreplied messages: %w", err)
	}
	e, ok := Compose(d.to, now, apts, msgs)
	if !ok {
		return false, nil
	}
	if err := d.mailer.Send(ctx, e); err != nil {
		return false, fmt.Errorf("send digest: %w", err)
	}
	return true, nil
}

// Compose renders the digest. ok is false when both lists are empty.
func Compose(to string, now time.Time, apts []model.Appointment, msgs []model.Message) (notify.Email, bool) {
	if len(apts) == 0 && len(msgs) == 0 {
		return notify.Email{}, false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Résumé du %s\n\n", now.Format("2006-01-02"))

	fmt.Fprintf(&b, "Nouveaux rendez-vous (24h): %d\n", len(apts))
	for _, a := range apts {
		fmt.Fprintf(&b, "- %s %s | %s | %s | %s\n", a.Date, a.Time, a.Name, a.Phone, a.Email)
	}

	fmt.Fprintf(&b, "\nMessages sans réponse: %d\n", len(msgs))
	for _, m := range msgs {
		fmt.Fprintf(&b, "- [%s] %s\n", m.CreatedAt.Format("2006-01-02 15:04"), preview(m.Content, 120))
	}

	return notify.Email{
		To:      []string{to},
		Subject: fmt.Sprintf("Résumé quotidien - Rodeo Drive (%d rendez-vous, %d messages)", len(apts), len(msgs)),
		Body:    b.String(),
	}, true
}

func preview(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
