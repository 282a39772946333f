// Package config loads the process-wide configuration. It is constructed
// once at startup and passed explicitly; nothing reloads it.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration. GitHub credentials are required;
// the Notion integration is active only when both its token and database id
// are present.
type Config struct {
	GitHubToken string `yaml:"github_token" validate:"required"`
	GitHubRepo  string `yaml:"github_repo" validate:"required,contains=/"`

	NotionToken      string `yaml:"notion_token"`
	NotionDatabaseID string `yaml:"notion_database_id"`

	// Cross-linking field names, declared for forward compatibility with a
	// bidirectional sync; current read paths do not consult them.
	GitHubNotionIDField string `yaml:"github_notion_id_field"`
	NotionGitHubIDField string `yaml:"notion_github_id_field"`

	APIHost string `yaml:"api_host" validate:"required"`
	APIPort int    `yaml:"api_port" validate:"gte=1,lte=65535"`

	// Comma-separated list of allowed CORS origins.
	CORSOrigins string `yaml:"cors_origins"`

	ServerDebugMode bool   `yaml:"server_debug_mode"`
	EnableHSTS      bool   `yaml:"enable_hsts"`
	OTELEnabled     bool   `yaml:"otel_enabled"`
	OTELEndpoint    string `yaml:"otel_endpoint"`
}

var validate = validator.New()

// Load reads configuration from the optional YAML file named by CONFIG_FILE,
// then overlays environment variables, then validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		GitHubNotionIDField: "notion_id",
		NotionGitHubIDField: "GitHub Issue",
		APIHost:             "0.0.0.0",
		APIPort:             8000,
		CORSOrigins:         "http://localhost:3000,https://*.vercel.app",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NotionConfigured reports whether the Notion adapter should be instantiated.
func (c *Config) NotionConfigured() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

// BindAddr is the host:port the HTTP server listens on.
func (c *Config) BindAddr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

func loadFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.GitHubToken = getEnv("GITHUB_TOKEN", cfg.GitHubToken)
	cfg.GitHubRepo = getEnv("GITHUB_REPO", cfg.GitHubRepo)
	cfg.NotionToken = getEnv("NOTION_TOKEN", cfg.NotionToken)
	cfg.NotionDatabaseID = getEnv("NOTION_DATABASE_ID", cfg.NotionDatabaseID)
	cfg.GitHubNotionIDField = getEnv("GITHUB_NOTION_ID_FIELD", cfg.GitHubNotionIDField)
	cfg.NotionGitHubIDField = getEnv("NOTION_GITHUB_ID_FIELD", cfg.NotionGitHubIDField)
	cfg.APIHost = getEnv("API_HOST", cfg.APIHost)
	cfg.APIPort = getEnvInt("API_PORT", cfg.APIPort)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
