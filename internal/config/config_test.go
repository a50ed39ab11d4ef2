package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CONFIG_FILE", "DB_PATH", "API_BASE_URL", "JWT_SECRET", "PRICE_API_KEY", "PREFS_BACKEND", "API_TIMEOUT", "REDIS_DB"} {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Database.Path == "" || cfg.Remote.BaseURL == "" || cfg.Auth.JWTSecret == "" || cfg.Prefs.Backend != "sqlite" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "test.db")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set")
	}
	t.Setenv("JWT_SECRET", "x")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
	if cfg.Database.Path != "test.db" {
		t.Fatalf("DB_PATH not applied: %s", cfg.Database.Path)
	}
}

func TestLoad_FileThenEnvOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "shop.yaml")
	body := `
database:
  path: from-file.db
remote:
  base_url: https://api.example.com
  price_api_key: file-key
  timeout: 3s
prefs:
  backend: redis
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_BASE_URL", "https://override.example.com")

	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Path != "from-file.db" || cfg.Remote.BaseURL != "https://override.example.com" {
		t.Fatalf("overlay order wrong: %+v", cfg)
	}
	if cfg.Remote.Timeout != 3*time.Second || cfg.Prefs.Backend != "redis" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if s := cfg.String(); strings.Contains(s, "file-key") || strings.Contains(s, cfg.Auth.JWTSecret) {
		t.Fatalf("String leaks secrets: %s", s)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PREFS_BACKEND", "etcd")
	if _, err := LoadWithDefaults(); err == nil {
		t.Fatalf("expected error for unknown prefs backend")
	}
	t.Setenv("PREFS_BACKEND", "sqlite")
	t.Setenv("API_TIMEOUT", "soon")
	if _, err := LoadWithDefaults(); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}
