package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Webhook.IDPrecedence != IDPrecedenceNested {
		t.Errorf("Webhook.IDPrecedence = %q, want nested", cfg.Webhook.IDPrecedence)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis should be disabled by default")
	}
	if cfg.Log.RetentionDays != 30 {
		t.Errorf("Log.RetentionDays = %d, want 30", cfg.Log.RetentionDays)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: "9090"
  mode: release
database:
  driver: postgres
  dsn: host=localhost user=app dbname=teamspace
webhook:
  signing_secret: whsec_abc
  id_precedence: flat
log:
  level: warn
  retention_days: 7
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.Mode != "release" {
		t.Errorf("server config = %+v", cfg.Server)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Webhook.SigningSecret != "whsec_abc" {
		t.Errorf("Webhook.SigningSecret = %q", cfg.Webhook.SigningSecret)
	}
	if cfg.Webhook.IDPrecedence != IDPrecedenceFlat {
		t.Errorf("Webhook.IDPrecedence = %q, want flat", cfg.Webhook.IDPrecedence)
	}
	if cfg.Log.Level != "warn" || cfg.Log.RetentionDays != 7 {
		t.Errorf("log config = %+v", cfg.Log)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("WEBHOOK_SIGNING_SECRET", "whsec_env")
	t.Setenv("WEBHOOK_ID_PRECEDENCE", "flat")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("Server.Port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("Database.Driver = %q, want mysql", cfg.Database.Driver)
	}
	if cfg.Webhook.SigningSecret != "whsec_env" {
		t.Errorf("Webhook.SigningSecret = %q, want whsec_env", cfg.Webhook.SigningSecret)
	}
	if cfg.Webhook.IDPrecedence != IDPrecedenceFlat {
		t.Errorf("Webhook.IDPrecedence = %q, want flat", cfg.Webhook.IDPrecedence)
	}
}

func TestLoad_InvalidPrecedence(t *testing.T) {
	t.Setenv("WEBHOOK_ID_PRECEDENCE", "newest")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should reject unknown id_precedence")
	}
}

func TestLoad_RedisURL(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://:s3cret@redis.internal:6380/2")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Redis.Enabled {
		t.Error("REDIS_URL should enable Redis")
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q, want redis.internal:6380", cfg.Redis.Addr)
	}
	if cfg.Redis.Password != "s3cret" {
		t.Errorf("Redis.Password = %q, want s3cret", cfg.Redis.Password)
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("Redis.DB = %d, want 2", cfg.Redis.DB)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = "4000"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != "4000" {
		t.Errorf("Server.Port = %q, want 4000", loaded.Server.Port)
	}
}
