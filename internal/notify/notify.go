// Package notify delivers human-readable messages to buyers, sellers and
// agents over SMS and email. Delivery is best-effort: failures are logged and
// never reach the workflow that produced the message.
package notify

import "context"

// Channel is a delivery medium.
type Channel string

const (
	SMS   Channel = "sms"
	Email Channel = "email"
)

// Message is one outbound notification to a single destination.
type Message struct {
	Channel Channel `json:"channel"`
	To      string  `json:"to"`
	Subject string  `json:"subject,omitempty"`
	Body    string  `json:"body"`
}

// Recipient is a person who can be reached by phone, email, or both.
type Recipient struct {
	Name  string
	Phone string
	Email string
}

// Letter is one notification rendered for both channels.
type Letter struct {
	Subject string
	SMS     string
	Email   string
}

// To addresses the letter to r: an SMS when r has a phone, an email when r
// has an email address.
func (l Letter) To(r Recipient) []Message {
	var out []Message
	if r.Phone != "" && l.SMS != "" {
		out = append(out, Message{Channel: SMS, To: r.Phone, Body: l.SMS})
	}
	if r.Email != "" && l.Email != "" {
		out = append(out, Message{Channel: Email, To: r.Email, Subject: l.Subject, Body: l.Email})
	}
	return out
}

// Notifier accepts messages for delivery. Notify never blocks on delivery
// and never fails.
type Notifier interface {
	Notify(msgs ...Message)
}

// Sender delivers one message over one channel.
type Sender interface {
	Send(ctx context.Context, m Message) error
}
