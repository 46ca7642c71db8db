package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. LINGO_SERVER_PORT.
const EnvPrefix = "LINGO"

// Load configuration from environment variables and optionally a config file.
// A .env file in the working directory is loaded first when present.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindAliases(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation on cfg, reporting fields by their
// mapstructure names.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", "production")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60*24)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.base_url", "https://api.studio.nebius.ai/v1/")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.default_model", "meta-llama/Llama-3.3-70B-Instruct")
	v.SetDefault("llm.extraction_model", "deepseek-ai/DeepSeek-V3")
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("llm.cache_size", 1024)

	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.stuck_task_age_minutes", 30)
	v.SetDefault("task.retry_delay_seconds", 60)
}

// bindAliases maps the conventional unprefixed variables onto config keys.
// The prefixed form still wins because it is bound first.
func bindAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"database.url":       {EnvPrefix + "_DATABASE_URL", "DATABASE_URL"},
		"llm.api_key":        {EnvPrefix + "_LLM_API_KEY", "NEBIUS_API_KEY", "OPENAI_API_KEY"},
		"llm.gemini_api_key": {EnvPrefix + "_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"},
	}
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	return nil
}
