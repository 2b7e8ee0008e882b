package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	HTTPPort string `env:"HTTP_PORT, default=8080"`

	// BotToken and AdminSecret are both required; the process fails fast
	// when either is absent. AdminSecret may be a bcrypt hash.
	BotToken    string `env:"TG_BOT_TOKEN"`
	AdminSecret string `env:"ADMIN_PASSWORD"`

	// Optional site-generation webhook; empty URL disables the feature.
	WebhookURL    string `env:"GENERATE_WEBHOOK_URL"`
	WebhookSecret string `env:"GENERATE_WEBHOOK_SECRET"`

	Workers int `env:"DISPATCH_WORKERS, default=8"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=intake_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from a .env file (when present) and the
// environment, then validates the required credentials.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.BotToken == "" {
		return nil, errors.New("config: TG_BOT_TOKEN is required")
	}
	if cfg.AdminSecret == "" {
		return nil, errors.New("config: ADMIN_PASSWORD is required")
	}
	return &cfg, nil
}
