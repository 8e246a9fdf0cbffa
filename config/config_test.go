package config

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"), quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Topics) != 1 || cfg.Topics[0] != "general news" {
		t.Fatalf("Topics = %v, want [general news]", cfg.Topics)
	}
	if cfg.ArticlesPerTopic != 5 {
		t.Fatalf("ArticlesPerTopic = %d, want 5", cfg.ArticlesPerTopic)
	}
	if cfg.Model != "sonar" {
		t.Fatalf("Model = %q, want sonar", cfg.Model)
	}
	if cfg.MaxTokens != 200 {
		t.Fatalf("MaxTokens = %d, want 200", cfg.MaxTokens)
	}
	if cfg.DaysBack != 1 {
		t.Fatalf("DaysBack = %d, want 1", cfg.DaysBack)
	}
	if cfg.MaxResults != 10 {
		t.Fatalf("MaxResults = %d, want 10", cfg.MaxResults)
	}
	if cfg.AutoSave {
		t.Fatal("AutoSave = true, want false")
	}
	if cfg.OutputDirectory != "briefs" {
		t.Fatalf("OutputDirectory = %q, want briefs", cfg.OutputDirectory)
	}
	if cfg.DateFormat != "January 2, 2006" {
		t.Fatalf("DateFormat = %q", cfg.DateFormat)
	}
	if cfg.QuerySuffix != "today" {
		t.Fatalf("QuerySuffix = %q, want today", cfg.QuerySuffix)
	}
	if cfg.Email.Enabled {
		t.Fatal("Email.Enabled = true, want false")
	}
	if cfg.Email.SMTPServer != "smtp.gmail.com" || cfg.Email.SMTPPort != 587 {
		t.Fatalf("Email server = %s:%d, want smtp.gmail.com:587", cfg.Email.SMTPServer, cfg.Email.SMTPPort)
	}
	if cfg.Schedule.EveryDays != 3 || cfg.Schedule.At != "08:00" {
		t.Fatalf("Schedule = every %d days at %s, want every 3 days at 08:00", cfg.Schedule.EveryDays, cfg.Schedule.At)
	}
	if cfg.Schedule.PollInterval != 60*time.Second {
		t.Fatalf("PollInterval = %v, want 60s", cfg.Schedule.PollInterval)
	}
	if cfg.Server.Listen != "" {
		t.Fatalf("Server.Listen = %q, want empty", cfg.Server.Listen)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `{"topics": ["sports"]}`)

	cfg, err := Load(path, quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Topics) != 1 || cfg.Topics[0] != "sports" {
		t.Fatalf("Topics = %v, want [sports]", cfg.Topics)
	}
	// Everything else keeps its default.
	if cfg.ArticlesPerTopic != 5 || cfg.Model != "sonar" || cfg.QuerySuffix != "today" {
		t.Fatalf("defaults disturbed: per_topic=%d model=%q suffix=%q", cfg.ArticlesPerTopic, cfg.Model, cfg.QuerySuffix)
	}
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, `{"topics": ["sports"`)

	cfg, err := Load(path, quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v, want fallback without error", err)
	}
	if len(cfg.Topics) != 1 || cfg.Topics[0] != "general news" {
		t.Fatalf("Topics = %v, want pure defaults", cfg.Topics)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := writeConfig(t, `{"topics": ["science"], "definitely_unknown": 42}`)

	cfg, err := Load(path, quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Topics[0] != "science" {
		t.Fatalf("Topics = %v, want [science]", cfg.Topics)
	}
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"), quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Key != "env-key" {
		t.Fatalf("API.Key = %q, want env-key", cfg.API.Key)
	}
}

func TestLoadEnvOverridesFileCredential(t *testing.T) {
	t.Setenv("EMAIL_PASSWORD", "env-secret")
	path := writeConfig(t, `{"email": {"enabled": true, "sender_email": "s@x.y", "sender_password": "file-secret", "recipient_email": "r@x.y"}}`)

	cfg, err := Load(path, quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Email.SenderPassword != "env-secret" {
		t.Fatalf("SenderPassword = %q, want env-secret", cfg.Email.SenderPassword)
	}
	if !cfg.Email.Enabled {
		t.Fatal("Email.Enabled = false, want true")
	}
}

func TestLoadDisablesIncompleteEmail(t *testing.T) {
	t.Setenv("EMAIL_PASSWORD", "")
	path := writeConfig(t, `{"email": {"enabled": true, "sender_email": "s@x.y"}}`)

	cfg, err := Load(path, quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Email.Enabled {
		t.Fatal("Email.Enabled = true, want disabled when credentials are incomplete")
	}
}

func TestLoadNormalizesSchedule(t *testing.T) {
	path := writeConfig(t, `{"schedule": {"every_days": 0, "at": "25:99", "poll_interval": "0s"}}`)

	cfg, err := Load(path, quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Schedule.EveryDays != 3 {
		t.Fatalf("EveryDays = %d, want 3", cfg.Schedule.EveryDays)
	}
	if cfg.Schedule.At != "08:00" {
		t.Fatalf("At = %q, want 08:00", cfg.Schedule.At)
	}
	if cfg.Schedule.PollInterval != 60*time.Second {
		t.Fatalf("PollInterval = %v, want 60s", cfg.Schedule.PollInterval)
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"), quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err = cfg.Validate()
	var cerr *CredentialError
	if !errors.As(err, &cerr) {
		t.Fatalf("Validate() error = %v, want *CredentialError", err)
	}
	if cerr.Name != "PERPLEXITY_API_KEY" {
		t.Fatalf("CredentialError.Name = %q", cerr.Name)
	}

	cfg.API.Key = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with key error = %v", err)
	}
}
