package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	CatalogPath string `env:"CATALOG_PATH"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Email    EmailConfig
	Dispatch DispatchConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hires"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type EmailConfig struct {
	FunctionURL string        `env:"EMAIL_FUNCTION_URL"`
	FunctionKey string        `env:"EMAIL_FUNCTION_KEY"`
	Timeout     time.Duration `env:"EMAIL_TIMEOUT, default=10s"`
}

type DispatchConfig struct {
	Workers  int           `env:"DISPATCH_WORKERS,       default=8"`
	DedupTTL time.Duration `env:"NOTIFICATION_DEDUP_TTL, default=168h"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the process environment. Values
// already present in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required in production")
	}
	return &cfg, nil
}
