package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: test
auth:
  admin_email: admin@baratcx.com
  admin_password: secret
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Polling.FallbackPolicy != PolicySynthetic {
		t.Fatalf("fallback policy = %q", cfg.Polling.FallbackPolicy)
	}
	if cfg.Polling.Market.Interval != 60*time.Second || cfg.Polling.Market.Retries != 1 {
		t.Fatalf("market spec = %+v", cfg.Polling.Market)
	}
	if cfg.Polling.Activity.Interval != 15*time.Second || cfg.Polling.Activity.Retries != 2 {
		t.Fatalf("activity spec = %+v", cfg.Polling.Activity)
	}
	if cfg.Polling.BatchSize != 5 {
		t.Fatalf("batch size = %d", cfg.Polling.BatchSize)
	}
	if cfg.Exchange.TestnetURL == "" || cfg.Market.AssetsURL == "" {
		t.Fatal("endpoint defaults not applied")
	}
	if cfg.Session.TokenTTL != 12*time.Hour {
		t.Fatalf("token ttl = %v", cfg.Session.TokenTTL)
	}
	if cfg.Auth.TempPassword != "temp123" {
		t.Fatalf("temp password = %q", cfg.Auth.TempPassword)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad fallback policy",
			content: `
environment: test
polling:
  fallback_policy: maybe
auth:
  admin_email: a@b.com
  admin_password: x
`,
		},
		{
			name:    "missing admin credentials",
			content: "environment: test\n",
		},
		{
			name: "events enabled without brokers",
			content: `
environment: test
events:
  enabled: true
  topic: activity
auth:
  admin_email: a@b.com
  admin_password: x
`,
		},
		{
			name: "events enabled without topic",
			content: `
environment: test
events:
  enabled: true
  brokers: ["localhost:9092"]
auth:
  admin_email: a@b.com
  admin_password: x
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("FALLBACK_POLICY", PolicyError)

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Auth.AdminPassword != "from-env" {
		t.Fatalf("admin password = %q", cfg.Auth.AdminPassword)
	}
	if cfg.Polling.FallbackPolicy != PolicyError {
		t.Fatalf("fallback policy = %q", cfg.Polling.FallbackPolicy)
	}
}

func TestSpec(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Spec("activity"); got != cfg.Polling.Activity {
		t.Fatalf("Spec(activity) = %+v", got)
	}
	if got := cfg.Spec("orders"); got != cfg.Polling.Orders {
		t.Fatalf("Spec(orders) = %+v", got)
	}
}
