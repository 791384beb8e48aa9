// Package config loads service settings from the environment and an optional YAML file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values of DATABASE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	BodyLimitMB int
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type RabbitMQConfig struct {
	URL      string // empty disables catalog events
	Exchange string
	Queue    string
}

type RedisConfig struct {
	Addr     string // empty disables the aggregate cache
	Password string
	DB       int
	TTL      time.Duration
}

type AuthConfig struct {
	JWTSecret string // empty leaves write routes open
	TokenTTL  time.Duration
}

// Production reports whether the service runs in hardened mode.
func (c *Config) Production() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// BodyLimit returns the request body limit in bytes.
func (c *Config) BodyLimit() int {
	return c.App.BodyLimitMB * 1024 * 1024
}

// Load reads configuration from environment variables, falling back to file when it is not empty.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			BodyLimitMB: v.GetInt("BODY_LIMIT_MB"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
		},
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BODY_LIMIT_MB", 10)
	v.SetDefault("DATABASE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "catalog")
	v.SetDefault("RABBITMQ_QUEUE", "catalog.audit")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.App.BodyLimitMB <= 0 {
		return fmt.Errorf("BODY_LIMIT_MB must be positive")
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.Exchange == "" {
		return fmt.Errorf("RABBITMQ_EXCHANGE is required when RABBITMQ_URL is set")
	}
	return nil
}
