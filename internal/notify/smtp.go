package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// IsConfigured returns true if SMTP settings are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.From != ""
}

// SMTPSender delivers email over SMTP.
// Supports both port 465 (implicit TLS) and port 587 (STARTTLS).
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates an SMTP email sender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send implements Sender. net/smtp has no context support; ctx bounds only
// the dial when implicit TLS is used.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if !s.cfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	msg := buildMessage(s.cfg.From, m.To, m.Subject, m.Body)
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	if s.cfg.Port == "465" {
		return s.sendImplicitTLS(ctx, addr, m.To, msg)
	}
	return s.sendSTARTTLS(addr, m.To, msg)
}

func buildMessage(from, to, subject, body string) []byte {
	// Header injection guard: subjects are built from user-supplied names.
	subject = strings.NewReplacer("\r", " ", "\n", " ").Replace(subject)
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		from, to, subject, body,
	))
}

// sendImplicitTLS connects over TLS directly (port 465/SMTPS).
func (s *SMTPSender) sendImplicitTLS(ctx context.Context, addr, to string, msg []byte) (err error) {
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("TLS dial: %w", err)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil && err == nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to %s: %w", to, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return nil
}

// sendSTARTTLS connects plain then upgrades to TLS (port 587).
func (s *SMTPSender) sendSTARTTLS(addr, to string, msg []byte) error {
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
