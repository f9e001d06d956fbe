package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/folio/pkg/config"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Auth.JWTSecret = "0123456789abcdef0123"
	cfg.Auth.AdminPassword = "changeme123"
	return cfg
}

func TestDefaultConfigNeedsSecret(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Fatalf("err = %v, want missing jwt_secret", err)
	}
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestAuthConfigRules(t *testing.T) {
	cases := []struct {
		name string
		edit func(*AuthConfig)
	}{
		{"short secret", func(c *AuthConfig) { c.JWTSecret = "short" }},
		{"short password", func(c *AuthConfig) { c.AdminPassword = "abc" }},
		{"tiny ttl", func(c *AuthConfig) { c.TokenTTL = time.Second }},
		{"cost too high", func(c *AuthConfig) { c.BcryptCost = 40 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.edit(&cfg.Auth)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAuthConfigPasswordOptional(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.AdminPassword = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty admin_password should pass: %v", err)
	}
}

func TestStoreConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Driver = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty driver should default: %v", err)
	}
	if cfg.Store.Driver != StoreDriverJSON {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}

	cfg.Store.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown driver should fail")
	}

	cfg.Store.Driver = StoreDriverSQLite
	cfg.Store.SQLitePath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("sqlite driver without sqlite_path should fail")
	}
}

func TestHTTPAndUploadsConfig(t *testing.T) {
	cfg := validConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port out of range should fail")
	}

	cfg = validConfig()
	cfg.Uploads.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing uploads path should fail")
	}

	if got := (&HTTPConfig{Port: 5000}).Address(); got != ":5000" {
		t.Errorf("Address = %q", got)
	}
}

func TestSiteAllowedOrigins(t *testing.T) {
	if got := NewDefaultConfig().Site.AllowedOrigins; len(got) != 1 || got[0] != "*" {
		t.Errorf("default origins = %v, want [*]", got)
	}

	cases := []struct {
		origins []string
		ok      bool
	}{
		{[]string{"*"}, true},
		{[]string{"https://maxgarcia642.github.io", "http://localhost:5173"}, true},
		{[]string{"https://*.example.com"}, true},
		{nil, true},
		{[]string{""}, false},
		{[]string{"maxgarcia642.github.io"}, false},
		{[]string{"https://example.com/path"}, false},
	}
	for _, tc := range cases {
		cfg := validConfig()
		cfg.Site.AllowedOrigins = tc.origins
		if err := cfg.Validate(); (err == nil) != tc.ok {
			t.Errorf("origins %q: err = %v, want ok=%v", tc.origins, err, tc.ok)
		}
	}
}

func TestLoadYAMLWithEnv(t *testing.T) {
	t.Setenv("FOLIO_TEST_SECRET", "from-the-environment-123")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  log_level: debug
  http:
    port: 8081
store:
  driver: sqlite
  sqlite_path: /tmp/folio.db
auth:
  jwt_secret: ${FOLIO_TEST_SECRET}
  token_ttl: 12h
site:
  allowed_origins:
    - https://maxgarcia642.github.io
events:
  throttle: 500ms
watch:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-the-environment-123" {
		t.Errorf("secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.App.HTTP.Port != 8081 || cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Store.Driver != StoreDriverSQLite || cfg.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("store/auth = %+v / %+v", cfg.Store, cfg.Auth)
	}
	if cfg.Events.Throttle != 500*time.Millisecond || cfg.Watch.Enabled {
		t.Errorf("events/watch = %+v / %+v", cfg.Events, cfg.Watch)
	}
	if got := cfg.Site.AllowedOrigins; len(got) != 1 || got[0] != "https://maxgarcia642.github.io" {
		t.Errorf("origins = %v", got)
	}
	// Untouched sections keep their defaults.
	if cfg.Uploads.Path != "./uploads" {
		t.Errorf("uploads path = %q", cfg.Uploads.Path)
	}
}
