package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	DBConn        string        `env:"DB_CONN" envDefault:"host=localhost port=5432 user=bank password=bank dbname=bank sslmode=disable"`
	StorageDriver string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	AutoMigrate   bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	ReadTimeout   time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout  time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`

	// SMTP settings for transfer notifications, disabled when SMTPHost is empty
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SenderEmail  string `env:"SENDER_EMAIL" envDefault:"no-reply@bank.local"`

	// Ledger event stream, disabled when KafkaBrokers is empty
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"ledger.transactions"`

	ReconcileSchedule string `env:"RECONCILE_SCHEDULE" envDefault:"@every 1h"`
}

// NewConfig loads configuration from environment variables, reading a .env file first when one exists
func NewConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DBConn == "" {
			return fmt.Errorf("DB_CONN is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// MailEnabled reports whether transfer e-mails should be sent
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// EventsEnabled reports whether ledger events should be published
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
