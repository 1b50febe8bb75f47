package replay

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML config file.
const ConfigFileEnv = "LEDGER_REPLAY_CONFIG"

// Store backends accepted by Config.StoreBackend.
const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

// ErrInvalidConfig wraps every validation failure returned by LoadConfig.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved runtime configuration of one replay run.
type Config struct {
	EnvName   string `env:"ENV_NAME"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogOutput string `env:"LOG_OUTPUT"`

	StoreBackend string `env:"STORE_BACKEND"`

	RedisAddress         string `env:"REDIS_ADDRESS"`
	RedisPassword        string `env:"REDIS_PASSWORD"`
	RedisDB              int64  `env:"REDIS_DB"`
	RedisKeyPrefix       string `env:"REDIS_KEY_PREFIX"`
	RedisConnectAttempts int64  `env:"REDIS_CONNECT_ATTEMPTS"`
	RedisFlushOnStart    bool   `env:"REDIS_FLUSH_ON_START"`
}

// configFile mirrors the YAML schema. It is kept apart from Config so the file
// layout can nest without leaking into the runtime struct.
type configFile struct {
	Service struct {
		EnvName   string `yaml:"env_name"`
		LogLevel  string `yaml:"log_level"`
		LogOutput string `yaml:"log_output"`
	} `yaml:"service"`
	Store struct {
		Backend string `yaml:"backend"`
		Redis   struct {
			Address         string `yaml:"address"`
			Password        string `yaml:"password"`
			DB              *int64 `yaml:"db"`
			KeyPrefix       string `yaml:"key_prefix"`
			ConnectAttempts *int64 `yaml:"connect_attempts"`
			FlushOnStart    *bool  `yaml:"flush_on_start"`
		} `yaml:"redis"`
	} `yaml:"store"`
}

// DefaultConfig returns the configuration used when neither file nor env override a key.
func DefaultConfig() Config {
	return Config{
		EnvName:              "production",
		LogLevel:             "warn",
		LogOutput:            "stderr",
		StoreBackend:         StoreBackendMemory,
		RedisAddress:         "localhost:6379",
		RedisKeyPrefix:       "ledger-replay",
		RedisConnectAttempts: 3,
		RedisFlushOnStart:    true,
	}
}

// LoadConfig resolves defaults, then the YAML file at path (skipped when path
// is empty), then environment variables, and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := SetConfigFromEnvVars(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file configFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
	}

	setIfNotEmpty(&c.EnvName, file.Service.EnvName)
	setIfNotEmpty(&c.LogLevel, file.Service.LogLevel)
	setIfNotEmpty(&c.LogOutput, file.Service.LogOutput)
	setIfNotEmpty(&c.StoreBackend, file.Store.Backend)
	setIfNotEmpty(&c.RedisAddress, file.Store.Redis.Address)
	setIfNotEmpty(&c.RedisPassword, file.Store.Redis.Password)
	setIfNotEmpty(&c.RedisKeyPrefix, file.Store.Redis.KeyPrefix)

	if file.Store.Redis.DB != nil {
		c.RedisDB = *file.Store.Redis.DB
	}

	if file.Store.Redis.ConnectAttempts != nil {
		c.RedisConnectAttempts = *file.Store.Redis.ConnectAttempts
	}

	if file.Store.Redis.FlushOnStart != nil {
		c.RedisFlushOnStart = *file.Store.Redis.FlushOnStart
	}

	return nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch c.EnvName {
	case "production", "staging", "uat", "development", "local":
	default:
		return fmt.Errorf("%w: unknown ENV_NAME %q", ErrInvalidConfig, c.EnvName)
	}

	switch c.StoreBackend {
	case StoreBackendMemory:
		return nil
	case StoreBackendRedis:
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, c.StoreBackend)
	}

	if strings.TrimSpace(c.RedisAddress) == "" {
		return fmt.Errorf("%w: REDIS_ADDRESS is required for the redis backend", ErrInvalidConfig)
	}

	if strings.TrimSpace(c.RedisKeyPrefix) == "" {
		return fmt.Errorf("%w: REDIS_KEY_PREFIX must not be empty", ErrInvalidConfig)
	}

	if c.RedisDB < 0 {
		return fmt.Errorf("%w: REDIS_DB must not be negative", ErrInvalidConfig)
	}

	if c.RedisConnectAttempts < 1 {
		return fmt.Errorf("%w: REDIS_CONNECT_ATTEMPTS must be at least 1", ErrInvalidConfig)
	}

	return nil
}

// IsProduction reports whether the run should redact error details in logs.
func (c Config) IsProduction() bool {
	return c.EnvName == "production"
}

func setIfNotEmpty(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}
