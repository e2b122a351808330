// Package config loads the Toria runtime configuration from an optional YAML
// file and TORIA_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/toria/internal/validator"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment overrides (TORIA_PORT, TORIA_LLM_PROVIDER...).
const EnvPrefix = "TORIA_"

// DefaultPath is read when no explicit file is given. A missing default file is not an error.
const DefaultPath = "toria.yaml"

// Config is the full runtime configuration.
type Config struct {
	Port      int    `yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	LogLevel  string `yaml:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format" validate:"oneof=pretty text json"`

	Store    string `yaml:"store" mapstructure:"store" validate:"oneof=memory mongo"`
	MongoURL string `yaml:"mongo_url" mapstructure:"mongo_url" validate:"required_if=Store mongo"`
	MongoDB  string `yaml:"mongo_db" mapstructure:"mongo_db"`

	History         string        `yaml:"history" mapstructure:"history" validate:"oneof=memory redis"`
	RedisAddr       string        `yaml:"redis_addr" mapstructure:"redis_addr" validate:"required_if=History redis"`
	RedisPassword   string        `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB         int           `yaml:"redis_db" mapstructure:"redis_db" validate:"gte=0"`
	HistoryTTL      time.Duration `yaml:"history_ttl" mapstructure:"history_ttl" validate:"gte=0"`
	DistributedLock bool          `yaml:"distributed_lock" mapstructure:"distributed_lock"`

	// HistoryEncryptionKey is a base64 AES-256 key; empty disables encryption at rest.
	HistoryEncryptionKey string   `yaml:"history_encryption_key" mapstructure:"history_encryption_key" validate:"omitempty,base64"`
	HistoryFallbackKeys  []string `yaml:"history_fallback_keys" mapstructure:"history_fallback_keys" validate:"dive,base64"`
	RedactPII            bool     `yaml:"redact_pii" mapstructure:"redact_pii"`
	PIIPatterns          []string `yaml:"pii_patterns" mapstructure:"pii_patterns"`

	LLMProvider      string        `yaml:"llm_provider" mapstructure:"llm_provider" validate:"oneof=echo openai gemini"`
	LLMModel         string        `yaml:"llm_model" mapstructure:"llm_model"`
	OpenAIAPIKey     string        `yaml:"openai_api_key" mapstructure:"openai_api_key" validate:"required_if=LLMProvider openai"`
	OpenAIBaseURL    string        `yaml:"openai_base_url" mapstructure:"openai_base_url" validate:"omitempty,url"`
	GeminiAPIKey     string        `yaml:"gemini_api_key" mapstructure:"gemini_api_key" validate:"required_if=LLMProvider gemini"`
	GeneratorTimeout time.Duration `yaml:"generator_timeout" mapstructure:"generator_timeout" validate:"gte=0"`
	HistoryWindow    int           `yaml:"history_window" mapstructure:"history_window" validate:"gte=0"`

	PreferenceCacheTTL time.Duration `yaml:"preference_cache_ttl" mapstructure:"preference_cache_ttl" validate:"gte=0"`
	NotifySchedule     string        `yaml:"notify_schedule" mapstructure:"notify_schedule"`
	SeedReels          bool          `yaml:"seed_reels" mapstructure:"seed_reels"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:               8001,
		LogLevel:           "info",
		LogFormat:          "pretty",
		Store:              "memory",
		MongoDB:            "toria_db",
		History:            "memory",
		LLMProvider:        "echo",
		GeneratorTimeout:   30 * time.Second,
		HistoryWindow:      40,
		PreferenceCacheTTL: 5 * time.Minute,
		NotifySchedule:     "@every 30m",
		SeedReels:          true,
	}
}

// Load reads path (or DefaultPath when empty) and the process environment.
func Load(path string) (*Config, error) {
	return LoadFrom(path, os.Environ())
}

// LoadFrom is Load with an explicit environment, as returned by os.Environ.
func LoadFrom(path string, environ []string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(cfg, environ); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, environ []string) error {
	values := make(map[string]any)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		values[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))] = value
	}
	if len(values) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("invalid %s environment: %w", EnvPrefix, err)
	}
	return nil
}
