package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig wraps validation failures during load.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full service configuration, loaded from config.toml.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Club     ClubConfig     `toml:"club"`
	Gateways GatewaysConfig `toml:"gateways"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig configures the Postgres pool.
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN builds the lib/pq connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig configures the logger.
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ClubConfig carries the business-rule knobs of the engine itself.
type ClubConfig struct {
	// Timezone is the club's civil timezone (IANA name). Every
	// wall-clock rule is evaluated in it.
	Timezone string `toml:"timezone"`
	// HoldTTLMinutes is how long a pending_payment hold blocks
	// payment completion before the sweeper reclaims it.
	HoldTTLMinutes int `toml:"hold_ttl_minutes"`
	// SweepIntervalSeconds is the expiration sweeper period.
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"`
	// SweepBatchSize bounds how many holds one sweep run reclaims.
	SweepBatchSize int `toml:"sweep_batch_size"`
	// OutboxFlushSeconds is the outbox relay period.
	OutboxFlushSeconds int `toml:"outbox_flush_seconds"`
}

// GatewaysConfig configures the three payment gateway clients.
type GatewaysConfig struct {
	Cardpay   GatewayConfig `toml:"cardpay"`
	Walletpay GatewayConfig `toml:"walletpay"`
	Prefpay   GatewayConfig `toml:"prefpay"`
}

// GatewayConfig is one gateway's endpoint and credentials.
type GatewayConfig struct {
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	Timeout int    `toml:"timeout"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Club.HoldTTLMinutes == 0 {
		cfg.Club.HoldTTLMinutes = 20
	}
	if cfg.Club.SweepIntervalSeconds == 0 {
		cfg.Club.SweepIntervalSeconds = 60
	}
	if cfg.Club.SweepBatchSize == 0 {
		cfg.Club.SweepBatchSize = 100
	}
	if cfg.Club.OutboxFlushSeconds == 0 {
		cfg.Club.OutboxFlushSeconds = 30
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "court-booking-service"
	}
}

func validate(cfg *Config) error {
	if cfg.Club.Timezone == "" {
		return fmt.Errorf("%w: club.timezone is required", ErrInvalidConfig)
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if cfg.Club.HoldTTLMinutes < 0 {
		return fmt.Errorf("%w: club.hold_ttl_minutes must be non-negative", ErrInvalidConfig)
	}
	return nil
}
