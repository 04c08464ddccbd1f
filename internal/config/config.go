package config

import (
	"time"

	"github.com/vijay-prabhu/gcgcards/internal/filter"
)

// Config represents the application configuration
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Display  DisplayConfig  `toml:"display"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	MCP      MCPConfig      `toml:"mcp"`
}

// BackendConfig contains the card API settings
type BackendConfig struct {
	// BaseURL is the query/update endpoint. Empty means not configured.
	BaseURL string `toml:"base_url" env:"GCG_API_BASE_URL"`
	// Timeout is a Go duration string; empty or "0s" means no timeout
	Timeout           string  `toml:"timeout" env:"GCG_API_TIMEOUT"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"GCG_API_RPS"`
	DefaultLimit      string  `toml:"default_limit"`
}

// TimeoutDuration parses Timeout. Invalid values are rejected by Validate.
func (b BackendConfig) TimeoutDuration() time.Duration {
	if b.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// DisplayConfig contains rendering settings
type DisplayConfig struct {
	ImageFallbackURL string `toml:"image_fallback_url"`
}

// DatabaseConfig contains adjustment journal settings
type DatabaseConfig struct {
	Path    string `toml:"path" env:"GCG_DATABASE_PATH"`
	Journal bool   `toml:"journal" env:"GCG_JOURNAL"`
}

// ServerConfig contains web UI settings
type ServerConfig struct {
	Addr string `toml:"addr" env:"GCG_SERVER_ADDR"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `toml:"level" env:"GCG_LOG_LEVEL"`
	Format string `toml:"format" env:"GCG_LOG_FORMAT"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			DefaultLimit: filter.DefaultLimit,
		},
		Display: DisplayConfig{
			ImageFallbackURL: "https://www.gundam-gcg.com/jp/images/cards/card/{cardNo}.webp",
		},
		Database: DatabaseConfig{
			Path:    "~/.local/share/gcgcards/journal.db",
			Journal: true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8650",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
