package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers email through the SendGrid v3 API.
type SendGridSender struct {
	client   *sendgrid.Client
	fromName string
	from     string
	sandbox  bool
}

// NewSendGridSender creates an email sender. In sandbox mode SendGrid
// validates each request without delivering it.
func NewSendGridSender(apiKey, fromName, from string, sandbox bool) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		from:     from,
		sandbox:  sandbox,
	}
}

// Send implements Sender.
func (s *SendGridSender) Send(ctx context.Context, m Message) error {
	msg := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		m.Subject,
		mail.NewEmail("", m.To),
		m.Body,
		"",
	)
	if s.sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
