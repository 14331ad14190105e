// Package ses envía notificaciones por AWS SESv2.
package ses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vet-hospital/internal/ports/notify"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type API interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer implementa notify.Mailer. Sin remitente queda deshabilitado.
type Mailer struct {
	client API
	from   string
}

var _ notify.Mailer = (*Mailer)(nil)

func New(cfg aws.Config, from string) *Mailer {
	return &Mailer{client: sesv2.NewFromConfig(cfg), from: strings.TrimSpace(from)}
}

func NewWithClient(client API, from string) *Mailer {
	return &Mailer{client: client, from: strings.TrimSpace(from)}
}

func (m *Mailer) Enabled() bool { return m != nil && m.client != nil && m.from != "" }

func (m *Mailer) Send(ctx context.Context, msg notify.Message) error {
	if !m.Enabled() {
		return errors.New("ses mailer not configured")
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("recipient is required")
	}
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &sestypes.Destination{ToAddresses: []string{msg.To}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(msg.Subject)},
				Body:    &sestypes.Body{Html: &sestypes.Content{Data: aws.String(msg.HTML)}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
