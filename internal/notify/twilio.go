package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type twilioAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Twilio sends SMS, or WhatsApp when the sender is a "whatsapp:" address.
type Twilio struct {
	api    twilioAPI
	from   string
	logger *log.Logger
}

func NewTwilio(accountSID, authToken, from string, logger *log.Logger) *Twilio {
	c := twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken})
	return &Twilio{api: c.Api, from: strings.TrimSpace(from), logger: logger}
}

// SendText ignores ctx; the Twilio SDK has no context support.
func (t *Twilio) SendText(_ context.Context, to, body string) error {
	to = normalizePhone(to)
	if to == "" {
		return fmt.Errorf("recipient number missing or invalid")
	}
	if strings.HasPrefix(t.from, "whatsapp:") {
		to = "whatsapp:" + to
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send message: %w", err)
	}
	if resp.Sid != nil {
		t.logger.Printf("text sent to %s, sid %s", to, *resp.Sid)
	}
	return nil
}

// normalizePhone strips formatting and makes the number E.164-ish.
func normalizePhone(phone string) string {
	r := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	p := r.Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "whatsapp:")
	if strings.HasPrefix(p, "00") {
		p = "+" + p[2:]
	}
	if p == "" || p == "+" {
		return ""
	}
	for _, c := range strings.TrimPrefix(p, "+") {
		if c < '0' || c > '9' {
			return ""
		}
	}
	if !strings.HasPrefix(p, "+") {
		p = "+" + p
	}
	return p
}
