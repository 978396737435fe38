package notify

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of delivering them. It is the
// fallback for channels with no provider configured.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(_ context.Context, m Message) error {
	slog.Info("notification (not sent)",
		"channel", string(m.Channel),
		"to", m.To,
		"subject", m.Subject,
		"body", m.Body,
	)
	return nil
}
