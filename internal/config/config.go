package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Utang"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		// Driver is one of postgres, sqlite or memory.
		Driver     string `envconfig:"DB_DRIVER" default:"postgres"`
		Host       string `envconfig:"DB_HOST" default:"localhost"`
		Port       int    `envconfig:"DB_PORT" default:"5432"`
		User       string `envconfig:"DB_USER" default:"postgres"`
		Password   string `envconfig:"DB_PASSWORD" default:""`
		Name       string `envconfig:"DB_NAME" default:"utang"`
		SQLitePath string `envconfig:"DB_SQLITE_PATH" default:"data/utang.db"`
		Migrate    bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	Auth struct {
		Secret string `envconfig:"AUTH_SECRET" required:"true"`
		Issuer string `envconfig:"AUTH_ISSUER" default:""`
		// Token is the session the terminal client presents as its viewer.
		Token string `envconfig:"AUTH_TOKEN"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DB.Driver == "sqlite" {
		return c.DB.SQLitePath
	}

	return c.ConnectionString()
}

// LogLevel parses Log.Level, falling back to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET must not be empty")
	}

	switch cfg.DB.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return &cfg, nil
}
