package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the slice of the SES client we use.
type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES sends email through Amazon SES v2. The From address must be verified
// in SES.
type SES struct {
	api    sesAPI
	from   string
	logger *log.Logger
}

// NewSES loads AWS credentials from the default chain and fails when none
// can be found, so callers can fall back to Nop at startup.
func NewSES(ctx context.Context, region, from string, logger *log.Logger) (*SES, error) {
	if from == "" {
		return nil, errors.New("ses: no sender address")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("aws credentials: %w", err)
	}
	return &SES{api: sesv2.NewFromConfig(cfg), from: from, logger: logger}, nil
}

func (s *SES) Send(ctx context.Context, e Email) error {
	if len(e.To) == 0 {
		return fmt.Errorf("ses: no recipient")
	}
	out, err := s.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: e.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(e.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(e.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	s.logger.Printf("email sent to %v, id %s", e.To, aws.ToString(out.MessageId))
	return nil
}
