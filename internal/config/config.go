package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development production test"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// AuthConfig contains bearer token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig selects and configures the LLM transport.
type LLMConfig struct {
	// Provider is either "openai" (any OpenAI-compatible endpoint, Nebius by
	// default) or "gemini".
	Provider        string `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	BaseURL         string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey          string `mapstructure:"api_key" validate:"required_if=Provider openai"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	DefaultModel    string `mapstructure:"default_model" validate:"required"`
	ExtractionModel string `mapstructure:"extraction_model"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"gt=0"`
	CacheSize       int    `mapstructure:"cache_size" validate:"gte=0"`
}

// Timeout returns the per-call transport timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TaskConfig tunes the background task runner.
type TaskConfig struct {
	QueueSize           int `mapstructure:"queue_size" validate:"required,gt=0"`
	WorkerCount         int `mapstructure:"worker_count" validate:"required,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
	RetryDelaySeconds   int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}
