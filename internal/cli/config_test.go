package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigSaveAndLoad(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := CLIConfig{ServerURL: "http://myhost:9090"}
	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(tmp, ".config", "hive", "config.yaml")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not found: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL {
		t.Errorf("server_url = %q, want %q", loaded.ServerURL, cfg.ServerURL)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.ServerURL != "" {
		t.Error("expected zero-value config for missing file")
	}
}

func TestConfigLoadMalformed(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	dir := filepath.Join(tmp, ".config", "hive")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_url: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGetServerURL(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		config string
		want   string
	}{
		{"env wins", "http://custom:1234", "http://saved:1", "http://custom:1234"},
		{"config", "", "http://saved:1", "http://saved:1"},
		{"default", "", "", "http://localhost:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv("HIVE_SERVER_URL", tt.env)
			if tt.config != "" {
				if err := saveConfig(CLIConfig{ServerURL: tt.config}); err != nil {
					t.Fatalf("save: %v", err)
				}
			}
			if got := getServerURL(); got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigSetServerCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HIVE_SERVER_URL", "")

	out, err := executeCommand("config", "set-server", "http://hive.example.com")
	if err != nil {
		t.Fatalf("set-server: %v", err)
	}
	if !strings.Contains(out, "http://hive.example.com") {
		t.Errorf("output = %q", out)
	}

	out, err = executeCommand("config", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Server: http://hive.example.com") {
		t.Errorf("output = %q", out)
	}
}
