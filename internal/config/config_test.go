package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Env-mutating tests cannot run in parallel.

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "GITHUB_TOKEN", "GITHUB_REPO",
		"NOTION_TOKEN", "NOTION_DATABASE_ID",
		"GITHUB_NOTION_ID_FIELD", "NOTION_GITHUB_ID_FIELD",
		"API_HOST", "API_PORT", "CORS_ORIGINS",
		"SERVER_DEBUG_MODE", "ENABLE_HSTS", "OTEL_ENABLED",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("GITHUB_REPO", "acme/widgets")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIHost != "0.0.0.0" || cfg.APIPort != 8000 {
		t.Errorf("bind defaults = %s:%d", cfg.APIHost, cfg.APIPort)
	}
	if cfg.BindAddr() != "0.0.0.0:8000" {
		t.Errorf("BindAddr() = %q", cfg.BindAddr())
	}
	if cfg.GitHubNotionIDField != "notion_id" || cfg.NotionGitHubIDField != "GitHub Issue" {
		t.Errorf("cross-link defaults = %q, %q", cfg.GitHubNotionIDField, cfg.NotionGitHubIDField)
	}
	if cfg.NotionConfigured() {
		t.Error("NotionConfigured() = true without credentials")
	}
}

func TestLoad_RequiresGitHubSettings(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want validation error for missing GitHub settings")
	}

	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("GITHUB_REPO", "not-a-repo-path")
	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want validation error for repo without owner")
	}
}

func TestLoad_NotionRequiresBothSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("GITHUB_REPO", "acme/widgets")
	t.Setenv("NOTION_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NotionConfigured() {
		t.Error("NotionConfigured() = true with token but no database id")
	}

	t.Setenv("NOTION_DATABASE_ID", "db-123")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.NotionConfigured() {
		t.Error("NotionConfigured() = false with both settings")
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(
		"github_token: file-token\n"+
			"github_repo: acme/widgets\n"+
			"api_port: 9000\n"+
			"cors_origins: https://app.example.com\n",
	), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GitHubToken != "file-token" {
		t.Errorf("GitHubToken = %q, want value from file", cfg.GitHubToken)
	}
	if cfg.APIPort != 9100 {
		t.Errorf("APIPort = %d, want env override 9100", cfg.APIPort)
	}
	if cfg.CORSOrigins != "https://app.example.com" {
		t.Errorf("CORSOrigins = %q", cfg.CORSOrigins)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("GITHUB_REPO", "acme/widgets")
	t.Setenv("API_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want port validation error")
	}
}
