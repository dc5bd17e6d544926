package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "shareit"
  environment: "test"
database:
  path: "test.db"
redis:
  address: "localhost:6379"
rate_limit:
  enabled: true
  requests: 50
  window: 30s
worker:
  max_retries: 3
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "shareit" {
		t.Errorf("expected app name shareit, got %s", cfg.App.Name)
	}
	if cfg.Database.Path != "test.db" {
		t.Errorf("expected database path test.db, got %s", cfg.Database.Path)
	}
	if cfg.RateLimit.Requests != 50 {
		t.Errorf("expected 50 rate limit requests, got %d", cfg.RateLimit.Requests)
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("expected 30s rate limit window, got %s", cfg.RateLimit.Window)
	}
	if cfg.Worker.MaxRetries != 3 {
		t.Errorf("expected 3 max retries, got %d", cfg.Worker.MaxRetries)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
database:
  path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Admin.HeaderAPIKey != "x-api-key" {
		t.Errorf("expected default api key header, got %s", cfg.Admin.HeaderAPIKey)
	}
	if cfg.Worker.Interval != 30*time.Second {
		t.Errorf("expected default worker interval 30s, got %s", cfg.Worker.Interval)
	}
	if cfg.Worker.Stream != "shareit:bookings" {
		t.Errorf("expected default stream name, got %s", cfg.Worker.Stream)
	}
	if cfg.RateLimit.Requests != 100 {
		t.Errorf("expected default 100 requests, got %d", cfg.RateLimit.Requests)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("SHAREIT_DB_PATH", "/var/lib/shareit.db")

	yamlContent := `
database:
  path: "${SHAREIT_DB_PATH}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "/var/lib/shareit.db" {
		t.Errorf("expected expanded database path, got %s", cfg.Database.Path)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{Database: DatabaseConfig{Path: "path"}},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "rate limit enabled without requests",
			cfg: Config{
				Database:  DatabaseConfig{Path: "path"},
				RateLimit: RateLimitConfig{Enabled: true, Requests: -1},
			},
			wantErr: true,
		},
		{
			name: "empty admin api key",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Admin:    AdminConfig{APIKeys: []AdminKey{{Name: "ops"}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
