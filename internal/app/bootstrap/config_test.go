package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
service:
  id: auth-manager-test
  http_port: 9000
dependencies:
  postgres_url: postgres://file/db
  redis_url: redis://file:6379/0
policy:
  free_tier_app_limit: 3
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DB_URL", "postgres://env/db")
	t.Setenv("OTP_TTL_MINUTES", "5")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceID != "auth-manager-test" {
		t.Fatalf("service id = %q", cfg.ServiceID)
	}
	if cfg.HTTPPort != 9000 {
		t.Fatalf("http port = %d", cfg.HTTPPort)
	}
	// Env beats file.
	if cfg.DatabaseURL != "postgres://env/db" {
		t.Fatalf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://file:6379/0" {
		t.Fatalf("redis url = %q", cfg.RedisURL)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Fatalf("otp ttl = %v", cfg.OTPTTL)
	}
	if cfg.FreeTierAppLimit != 3 {
		t.Fatalf("app limit = %d", cfg.FreeTierAppLimit)
	}
}

func TestLoadConfigMissingDatabase(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("REDIS_URL", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error without database url")
	}
}
