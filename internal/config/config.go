package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/patient-registry/internal/billing"
	"github.com/jwalitptl/patient-registry/internal/inventory"
	"github.com/jwalitptl/patient-registry/pkg/messaging/redis"
	"github.com/jwalitptl/patient-registry/pkg/worker"
)

// EnvPrefix prefixes every environment override, e.g. REGISTRY_SERVER_PORT.
const EnvPrefix = "registry"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Billing   BillingConfig   `mapstructure:"billing"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" split_words:"true"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Events    EventsConfig    `mapstructure:"events"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port" validate:"min=1,max=65535"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" split_words:"true" validate:"min=1"`
}

type RegistryConfig struct {
	UndoCapacity int `mapstructure:"undo_capacity" split_words:"true" validate:"min=1"`
}

type BillingConfig struct {
	Terms []billing.Term `mapstructure:"terms" ignored:"true" validate:"dive"`
}

type InventoryConfig struct {
	CacheTTL     time.Duration `mapstructure:"cache_ttl" envconfig:"CACHE_TTL" validate:"gte=0"`
	CacheCleanup time.Duration `mapstructure:"cache_cleanup" split_words:"true" validate:"gte=0"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `mapstructure:"burst" validate:"gte=0"`
}

type LogConfig struct {
	Level   string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Console bool   `mapstructure:"console"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"URL" validate:"omitempty,url"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true" validate:"gte=0"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true" validate:"gte=0"`
	MinIdleConns int           `mapstructure:"min_idle_conns" split_words:"true" validate:"gte=0"`
}

type EventsConfig struct {
	Channel       string        `mapstructure:"channel" validate:"required"`
	BufferSize    int           `mapstructure:"buffer_size" split_words:"true" validate:"min=1"`
	RetryAttempts int           `mapstructure:"retry_attempts" split_words:"true" validate:"min=1"`
	RetryDelay    time.Duration `mapstructure:"retry_delay" split_words:"true" validate:"gte=0"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("registry.undo_capacity", 50)
	v.SetDefault("billing.terms", []map[string]interface{}{
		{"coefficient": 200, "exponent": 1},
		{"coefficient": 500, "exponent": 0},
	})
	v.SetDefault("inventory.cache_ttl", 10*time.Minute)
	v.SetDefault("inventory.cache_cleanup", 30*time.Minute)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 100)
	v.SetDefault("rate_limit.burst", 200)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("events.channel", "registry.events")
	v.SetDefault("events.buffer_size", 256)
	v.SetDefault("events.retry_attempts", 3)
	v.SetDefault("events.retry_delay", 500*time.Millisecond)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// LoadConfig reads config.yaml from path (or from . and ./config when path
// is empty), applies REGISTRY_* environment overrides and validates the
// result. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// Add conversion methods to convert config types
func (c *InventoryConfig) ToCacheConfig() inventory.CacheConfig {
	return inventory.CacheConfig{
		TTL:             c.CacheTTL,
		CleanupInterval: c.CacheCleanup,
	}
}

func (c *EventsConfig) ToDispatcherConfig() worker.EventDispatcherConfig {
	return worker.EventDispatcherConfig{
		Channel:       c.Channel,
		BufferSize:    c.BufferSize,
		RetryAttempts: c.RetryAttempts,
		RetryDelay:    c.RetryDelay,
	}
}

func (c *RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}
