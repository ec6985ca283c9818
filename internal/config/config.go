package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; defaults apply when the variable is unset.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`   // application environment (e.g. "dev", "prod")
	Port string `env:"APP_PORT" envDefault:"8080"` // HTTP port to listen on

	DB DBConfig

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"` // bcrypt cost for password hashing

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "text" or "json"
	LogFile   string `env:"LOG_FILE"`                     // optional rotated log file

	RabbitMQURL string `env:"RABBITMQ_URL"` // empty disables event publishing
	EventsQueue string `env:"EVENTS_QUEUE" envDefault:"habits.completion.recorded"`

	AutoMigrate    bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
}

// DBConfig describes how to reach the relational store.  Driver selects
// one of "mysql", "postgres" or "sqlite"; Path is only used by sqlite.
type DBConfig struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"mysql"`
	User            string        `env:"DB_USER"`
	Pass            string        `env:"DB_PASS"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT"`
	Name            string        `env:"DB_NAME" envDefault:"habits"`
	Path            string        `env:"DB_PATH" envDefault:"habits.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// Load reads a .env file when one exists in the working directory, then
// parses the environment into a Config and validates it.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot produce a working server.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres":
		if c.DB.User == "" {
			return fmt.Errorf("DB_USER is required for driver %q", c.DB.Driver)
		}
	case "sqlite":
		if c.DB.Path == "" {
			return fmt.Errorf("DB_PATH is required for driver sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}
