package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config is the root configuration shared by the CLI and the backend.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Completion CompletionConfig `yaml:"completion"`
	Client     ClientConfig     `yaml:"client"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds settings for `journal serve`.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"JOURNAL_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"JOURNAL_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"JOURNAL_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"JOURNAL_WRITE_TIMEOUT"    env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"JOURNAL_SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSOrigin      string        `yaml:"cors_origin"      env:"JOURNAL_CORS_ORIGIN"      env-default:"*"`
	// LandingURL, when set, is proxied for every GET that no other route matches.
	LandingURL string `yaml:"landing_url" env:"JOURNAL_LANDING_URL"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// CompletionConfig selects and configures the text-completion backend.
type CompletionConfig struct {
	Provider  string        `yaml:"provider"   env:"JOURNAL_COMPLETION_PROVIDER" env-default:"anthropic"`
	APIKey    string        `yaml:"api_key"    env:"ANTHROPIC_API_KEY"`
	BaseURL   string        `yaml:"base_url"   env:"ANTHROPIC_BASE_URL"`
	Model     string        `yaml:"model"      env:"JOURNAL_MODEL"              env-default:"claude-3-7-sonnet-20250219"`
	MaxTokens int64         `yaml:"max_tokens" env:"JOURNAL_MAX_TOKENS"         env-default:"1024"`
	Timeout   time.Duration `yaml:"timeout"    env:"JOURNAL_COMPLETION_TIMEOUT" env-default:"60s"`
	RateLimit float64       `yaml:"rate_limit" env:"JOURNAL_RATE_LIMIT"         env-default:"2"`
	Burst     int           `yaml:"burst"      env:"JOURNAL_RATE_BURST"         env-default:"4"`
}

// ClientConfig configures the reflection client used by the CLI.
type ClientConfig struct {
	ReflectURL  string        `yaml:"reflect_url"  env:"JOURNAL_REFLECT_URL"  env-default:"http://localhost:8080/api/journal"`
	Timeout     time.Duration `yaml:"timeout"      env:"JOURNAL_CLIENT_TIMEOUT" env-default:"90s"`
	MaxAttempts int           `yaml:"max_attempts" env:"JOURNAL_MAX_ATTEMPTS" env-default:"1"`
	Backoff     time.Duration `yaml:"backoff"      env:"JOURNAL_BACKOFF"      env-default:"500ms"`
}

// StorageConfig configures where entries and preferences are kept.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"JOURNAL_STORAGE" env-default:"diskv"`
	Path    string `yaml:"path"    env:"JOURNAL_DATA"    env-default:"~/.journal"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// MaxClientAttempts bounds client.max_attempts.
const MaxClientAttempts = 10

// Storage backends.
const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Completion providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderEcho      = "echo"
)

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendDiskv, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend != BackendMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path: required for backend %q", c.Storage.Backend)
	}

	switch c.Completion.Provider {
	case ProviderAnthropic, ProviderEcho:
	default:
		return fmt.Errorf("completion.provider: unknown provider %q", c.Completion.Provider)
	}
	if c.Completion.MaxTokens <= 0 {
		return fmt.Errorf("completion.max_tokens: must be positive, got %d", c.Completion.MaxTokens)
	}
	if c.Completion.RateLimit <= 0 {
		return fmt.Errorf("completion.rate_limit: must be positive, got %v", c.Completion.RateLimit)
	}
	if c.Completion.Burst < 1 {
		return fmt.Errorf("completion.burst: must be at least 1, got %d", c.Completion.Burst)
	}

	if c.Client.ReflectURL == "" {
		return fmt.Errorf("client.reflect_url: required")
	}
	if c.Client.MaxAttempts < 1 || c.Client.MaxAttempts > MaxClientAttempts {
		return fmt.Errorf("client.max_attempts: must be between 1 and %d, got %d", MaxClientAttempts, c.Client.MaxAttempts)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: out of range: %d", c.Server.Port)
	}

	return nil
}
