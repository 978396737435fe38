package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/evcraddock/showing-hive/internal/notify"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.ShowingDuration != time.Hour {
		t.Errorf("showing duration = %v, want 1h", cfg.ShowingDuration)
	}
	if cfg.CodeValidity != 75*time.Minute {
		t.Errorf("code validity = %v, want 1h15m", cfg.CodeValidity)
	}
	if cfg.NotifyTimeout != 10*time.Second {
		t.Errorf("notify timeout = %v, want 10s", cfg.NotifyTimeout)
	}
	if cfg.NotifyQueue != 256 {
		t.Errorf("notify queue = %d, want 256", cfg.NotifyQueue)
	}
	if cfg.ReminderSchedule != "@every 15m" {
		t.Errorf("reminder schedule = %q", cfg.ReminderSchedule)
	}
	if cfg.SMTP.Port != "587" {
		t.Errorf("smtp port = %q, want 587", cfg.SMTP.Port)
	}
	if cfg.Twilio.IsConfigured() || cfg.SendGrid.IsConfigured() || cfg.SMTP.IsConfigured() {
		t.Error("no provider should be configured by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HIVE_PORT", "9090")
	t.Setenv("HIVE_DEV_MODE", "true")
	t.Setenv("HIVE_SHOWING_DURATION", "45m")
	t.Setenv("HIVE_CODE_VALIDITY", "2h")
	t.Setenv("HIVE_REMINDER_SCHEDULE", "off")
	t.Setenv("HIVE_CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("HIVE_TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("HIVE_TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("HIVE_TWILIO_FROM", "+15550000000")
	t.Setenv("HIVE_SENDGRID_API_KEY", "SG.key")
	t.Setenv("HIVE_SENDGRID_FROM", "hive@example.com")
	t.Setenv("HIVE_SENDGRID_SANDBOX", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	if cfg.Port != 9090 || !cfg.DevMode {
		t.Errorf("port = %d, dev = %v", cfg.Port, cfg.DevMode)
	}
	if cfg.ShowingDuration != 45*time.Minute || cfg.CodeValidity != 2*time.Hour {
		t.Errorf("durations = %v, %v", cfg.ShowingDuration, cfg.CodeValidity)
	}
	if cfg.ReminderSchedule != "" {
		t.Errorf("reminder schedule = %q, want disabled", cfg.ReminderSchedule)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
	if !cfg.Twilio.IsConfigured() {
		t.Error("expected twilio configured")
	}
	if !cfg.SendGrid.IsConfigured() || !cfg.SendGrid.Sandbox {
		t.Errorf("sendgrid = %+v", cfg.SendGrid)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"HIVE_PORT", "eighty"},
		{"HIVE_PORT", "-1"},
		{"HIVE_NOTIFY_QUEUE", "0"},
		{"HIVE_SHOWING_DURATION", "an hour"},
		{"HIVE_CODE_VALIDITY", "-5m"},
		{"HIVE_NOTIFY_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestSenders(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantSMS   string
		wantEmail string
	}{
		{"nothing configured", Config{}, "notify.LogSender", "notify.LogSender"},
		{
			"twilio and sendgrid",
			Config{
				Twilio:   TwilioConfig{AccountSID: "AC1", AuthToken: "t", From: "+1555"},
				SendGrid: SendGridConfig{APIKey: "k", From: "a@example.com"},
				SMTP:     notify.SMTPConfig{Host: "smtp.example.com", Port: "587", From: "a@example.com"},
			},
			"*notify.TwilioSender", "*notify.SendGridSender",
		},
		{
			"smtp only",
			Config{SMTP: notify.SMTPConfig{Host: "smtp.example.com", Port: "587", From: "a@example.com"}},
			"notify.LogSender", "*notify.SMTPSender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			senders := tt.cfg.Senders()
			if got := fmt.Sprintf("%T", senders[notify.SMS]); got != tt.wantSMS {
				t.Errorf("sms sender = %s, want %s", got, tt.wantSMS)
			}
			if got := fmt.Sprintf("%T", senders[notify.Email]); got != tt.wantEmail {
				t.Errorf("email sender = %s, want %s", got, tt.wantEmail)
			}
		})
	}
}
