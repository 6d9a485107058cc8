package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_SECRET", "CORS_ORIGINS", "REQUIRE_PREPARED_TO_COMPLETE", "API_URL", "POLL_INTERVAL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("port: got %q, want 8081", cfg.Port)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Errorf("poll interval: got %s, want 3s", cfg.PollInterval)
	}
	if cfg.RequirePrepared {
		t.Error("prepared gate should default off")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("cors origins: got %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REQUIRE_PREPARED_TO_COMPLETE", "true")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("LOG_LEVEL", "verbose")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins: got %v", cfg.CORSOrigins)
	}
	if !cfg.RequirePrepared {
		t.Error("prepared gate not enabled")
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("poll interval: got %s", cfg.PollInterval)
	}
	if cfg.LogLevel != "verbose" {
		t.Errorf("log level: got %q", cfg.LogLevel)
	}
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("REQUIRE_PREPARED_TO_COMPLETE", "maybe")
	t.Setenv("POLL_INTERVAL", "-2s")

	cfg := Load()
	if cfg.RequirePrepared {
		t.Error("bad bool should fall back to false")
	}
	if cfg.PollInterval != 3*time.Second {
		t.Errorf("poll interval: got %s, want fallback 3s", cfg.PollInterval)
	}
}
