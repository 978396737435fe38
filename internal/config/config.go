// Package config loads server configuration from HIVE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/evcraddock/showing-hive/internal/notify"
)

// Config holds server configuration.
type Config struct {
	Port     int
	DBPath   string // empty means db.DefaultPath
	FilesDir string // empty means next to the database
	DevMode  bool
	BaseURL  string // e.g. http://localhost:8080

	ShowingDuration time.Duration
	CodeValidity    time.Duration

	NotifyTimeout time.Duration
	NotifyQueue   int

	ReminderSchedule string // cron spec, empty disables reminders
	ReminderLead     time.Duration

	CORSOrigins []string

	Twilio   TwilioConfig
	SendGrid SendGridConfig
	SMTP     notify.SMTPConfig
}

// TwilioConfig holds SMS provider settings.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// IsConfigured returns true if Twilio settings are present.
func (c TwilioConfig) IsConfigured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

// SendGridConfig holds email provider settings.
type SendGridConfig struct {
	APIKey  string
	From    string
	Sandbox bool
}

// IsConfigured returns true if SendGrid settings are present.
func (c SendGridConfig) IsConfigured() bool {
	return c.APIKey != "" && c.From != ""
}

// FromEnv creates a Config from environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		DBPath:           os.Getenv("HIVE_DB"),
		FilesDir:         os.Getenv("HIVE_FILES_DIR"),
		DevMode:          os.Getenv("HIVE_DEV_MODE") == "true",
		BaseURL:          envOrDefault("HIVE_BASE_URL", "http://localhost:8080"),
		ReminderSchedule: envOrDefault("HIVE_REMINDER_SCHEDULE", "@every 15m"),
		CORSOrigins:      splitList(os.Getenv("HIVE_CORS_ORIGINS")),
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("HIVE_TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("HIVE_TWILIO_AUTH_TOKEN"),
			From:       os.Getenv("HIVE_TWILIO_FROM"),
		},
		SendGrid: SendGridConfig{
			APIKey:  os.Getenv("HIVE_SENDGRID_API_KEY"),
			From:    os.Getenv("HIVE_SENDGRID_FROM"),
			Sandbox: os.Getenv("HIVE_SENDGRID_SANDBOX") == "true",
		},
		SMTP: notify.SMTPConfig{
			Host: os.Getenv("HIVE_SMTP_HOST"),
			Port: envOrDefault("HIVE_SMTP_PORT", "587"),
			User: os.Getenv("HIVE_SMTP_USER"),
			Pass: os.Getenv("HIVE_SMTP_PASS"),
			From: os.Getenv("HIVE_SMTP_FROM"),
		},
	}
	if cfg.ReminderSchedule == "off" {
		cfg.ReminderSchedule = ""
	}

	var err error
	if cfg.Port, err = intEnv("HIVE_PORT", 8080); err != nil {
		return Config{}, err
	}
	if cfg.NotifyQueue, err = intEnv("HIVE_NOTIFY_QUEUE", 256); err != nil {
		return Config{}, err
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"HIVE_SHOWING_DURATION", time.Hour, &cfg.ShowingDuration},
		{"HIVE_CODE_VALIDITY", time.Hour + 15*time.Minute, &cfg.CodeValidity},
		{"HIVE_NOTIFY_TIMEOUT", 10 * time.Second, &cfg.NotifyTimeout},
		{"HIVE_REMINDER_LEAD", time.Hour, &cfg.ReminderLead},
	}
	for _, d := range durations {
		if *d.dst, err = durationEnv(d.key, d.fallback); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: want a positive integer, got %q", key, v)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: want a positive duration like 1h15m, got %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Senders builds the delivery backend for each channel. Unconfigured
// channels fall back to writing messages to the log.
func (c Config) Senders() map[notify.Channel]notify.Sender {
	senders := map[notify.Channel]notify.Sender{
		notify.SMS:   notify.LogSender{},
		notify.Email: notify.LogSender{},
	}
	if c.Twilio.IsConfigured() {
		senders[notify.SMS] = notify.NewTwilioSender(c.Twilio.AccountSID, c.Twilio.AuthToken, c.Twilio.From)
	}
	switch {
	case c.SendGrid.IsConfigured():
		senders[notify.Email] = notify.NewSendGridSender(c.SendGrid.APIKey, "Showing Hive", c.SendGrid.From, c.SendGrid.Sandbox)
	case c.SMTP.IsConfigured():
		senders[notify.Email] = notify.NewSMTPSender(c.SMTP)
	}
	return senders
}
