package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
database:
  url: "postgres://localhost/reminders"
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Workers != 8 {
		t.Errorf("expected default workers, got %d", cfg.Bot.Workers)
	}
	if cfg.Dispatcher.Interval != time.Minute {
		t.Errorf("expected default interval, got %v", cfg.Dispatcher.Interval)
	}
	if cfg.Dispatcher.MaxAttempts != 5 {
		t.Errorf("expected default attempt cap, got %d", cfg.Dispatcher.MaxAttempts)
	}
	if cfg.Resolver.Timezone != "UTC" || cfg.Resolver.SessionTTL != 10*time.Minute {
		t.Errorf("unexpected resolver defaults: %+v", cfg.Resolver)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag not carried into runtime config")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
  workers: 3
database:
  url: "postgres://localhost/reminders"
dispatcher:
  interval: 30s
  max_attempts: 2
resolver:
  timezone: "Asia/Almaty"
  session_ttl: 5m
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Workers != 3 || cfg.Dispatcher.Interval != 30*time.Second || cfg.Dispatcher.MaxAttempts != 2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Resolver.Timezone != "Asia/Almaty" || cfg.Resolver.SessionTTL != 5*time.Minute {
		t.Errorf("resolver overrides not applied: %+v", cfg.Resolver)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		path := writeConfig(t, "database:\n  url: \"postgres://x\"\n")
		if _, err := LoadConfig(path, false); err == nil {
			t.Fatal("expected an error for a missing bot token")
		}
	})
	t.Run("missing database url", func(t *testing.T) {
		path := writeConfig(t, "bot:\n  token: \"123:abc\"\n")
		if _, err := LoadConfig(path, false); err == nil {
			t.Fatal("expected an error for a missing database url")
		}
	})
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})
}
