// Package config loads application configuration from YAML files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for configuration environment variables.
// Nested keys use a double underscore, e.g. STREAMMANAGER_SERVER__PORT.
const EnvPrefix = "STREAMMANAGER_"

// Config aggregates all application settings.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Database      DatabaseConfig      `koanf:"database"`
	Log           LogConfig           `koanf:"log"`
	Billing       BillingConfig       `koanf:"billing"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Client        ClientConfig        `koanf:"client"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRPS      float64       `koanf:"rate_limit_rps"`
	RateLimitBurst    int           `koanf:"rate_limit_burst"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
	MigrationsPath  string        `koanf:"migrations_path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

// BillingConfig contains revenue computation settings.
type BillingConfig struct {
	// UnitPrice is the assumed monthly price per subscription.
	UnitPrice float64 `koanf:"unit_price"`
}

// NotificationsConfig contains message delivery settings.
type NotificationsConfig struct {
	Email     EmailConfig     `koanf:"email"`
	Worker    WorkerConfig    `koanf:"worker"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
}

// EmailConfig contains SMTP sender settings.
type EmailConfig struct {
	Enabled      bool   `koanf:"enabled"`
	SMTPHost     string `koanf:"smtp_host"`
	SMTPPort     int    `koanf:"smtp_port"`
	SMTPUser     string `koanf:"smtp_user"`
	SMTPPassword string `koanf:"smtp_password"`
	FromAddress  string `koanf:"from_address"`
}

// WorkerConfig contains delivery worker settings.
type WorkerConfig struct {
	BatchSize    int           `koanf:"batch_size"`
	PollInterval time.Duration `koanf:"poll_interval"`
	MaxAttempts  int           `koanf:"max_attempts"`
	NumWorkers   int           `koanf:"num_workers"`
}

// SchedulerConfig contains expiry reminder scheduler settings.
type SchedulerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Interval     time.Duration `koanf:"interval"`
	ReminderDays int           `koanf:"reminder_days"`
	DueSoonDays  int           `koanf:"due_soon_days"`
}

// ClientConfig contains settings for the admin client.
type ClientConfig struct {
	// BaseURL is the backend base URL; API endpoints live under <base>/api.
	BaseURL string `koanf:"base_url"`
}

// Load reads configuration from the given YAML file (optional) and
// environment variables. Environment variables override file values.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// envKey maps STREAMMANAGER_SERVER__PORT to server.port.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8001",
			MetricsPort:       "9091",
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRPS:      50,
			RateLimitBurst:    100,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectTimeout:  30 * time.Second,
			ConnectAttempts: 5,
			MigrationsPath:  "migrations",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Billing: BillingConfig{
			UnitPrice: 15,
		},
		Notifications: NotificationsConfig{
			Email: EmailConfig{
				SMTPPort: 587,
			},
			Worker: WorkerConfig{
				BatchSize:    100,
				PollInterval: 5 * time.Second,
				MaxAttempts:  3,
				NumWorkers:   2,
			},
			Scheduler: SchedulerConfig{
				Enabled:      true,
				Interval:     6 * time.Hour,
				ReminderDays: 7,
				DueSoonDays:  3,
			},
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8001",
		},
	}
}
