package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer sends the occasional notification over SES. All sends are
// best-effort: a mail failure never fails the request that triggered it.
type Mailer struct {
	client *ses.Client
	sender string
}

func NewMailer(ctx context.Context, region, sender string) (*Mailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("AWS config load failed: %v", err)
	}
	return &Mailer{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(m.sender),
	}

	_, err := m.client.SendEmail(ctx, input)
	if err != nil {
		log.Printf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendLimitReachedEmail tells a user they just used their last scan of the day.
func (m *Mailer) SendLimitReachedEmail(ctx context.Context, to string, limit int) error {
	subject := "You've hit today's scan limit"
	body := fmt.Sprintf(
		"That was scan %d of %d for today - the camera is taking the rest of the day off.\n\nYour limit resets at midnight, your time.",
		limit, limit,
	)
	return m.send(ctx, to, subject, body)
}
