package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	SwaggerHost string `env:"SWAGGER_HOST"`

	MySQLDSN       string        `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/taskhub?charset=utf8mb4&parseTime=True&loc=UTC"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLife  time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	// DBTxIsolation is "read_committed", "repeatable_read", "serializable" or
	// empty for the driver default.
	DBTxIsolation string `env:"DB_TX_ISOLATION" envDefault:"read_committed"`
	DBLogLevel    string `env:"DB_LOG_LEVEL" envDefault:"warn"`
	ResetDB       bool   `env:"RESET_DB" envDefault:"false"`

	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	RedisPass        string        `env:"REDIS_PASSWORD"`
	NicknameCacheTTL time.Duration `env:"NICKNAME_CACHE_TTL" envDefault:"5m"`

	// AppEnv is "development" or "production". Development allows the
	// placeholder JWT secret.
	AppEnv    string `env:"APP_ENV" envDefault:"production"`
	JWTSecret string `env:"JWT_SECRET"`

	// OTelEndpoint is an OTLP/HTTP URL such as http://localhost:4318.
	// Tracing is off when it is empty.
	OTelEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
}

// Load builds Config from the environment, reading an optional .env file first.
// Variables already present in the environment take precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBMaxOpenConns < 1 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", cfg.DBMaxOpenConns)
	}
	if err := cfg.checkJWTSecret(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DevJWTSecret is the signing key used when APP_ENV=development and
// JWT_SECRET is unset.
const DevJWTSecret = "change-me"

func (c *Config) checkJWTSecret() error {
	if c.AppEnv == "development" {
		if c.JWTSecret == "" {
			c.JWTSecret = DevJWTSecret
		}
		return nil
	}
	if c.JWTSecret == "" || c.JWTSecret == DevJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set to a private value when APP_ENV=%q", c.AppEnv)
	}
	return nil
}
