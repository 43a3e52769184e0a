// Package config provides unified configuration loading for callsync.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for callsync.
type Config struct {
	Mail          MailConfig          `yaml:"mail"`
	Store         StoreConfig         `yaml:"store"`
	Cache         CacheConfig         `yaml:"cache"`
	Ingest        IngestConfig        `yaml:"ingest"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MailConfig holds IMAP mailbox settings.
type MailConfig struct {
	Server   string `yaml:"server"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Mailbox  string `yaml:"mailbox"`
	Subject  string `yaml:"subject"`
	Limit    int    `yaml:"limit"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	Driver    string          `yaml:"driver"` // firestore or postgres
	Firestore FirestoreConfig `yaml:"firestore"`
	Postgres  PostgresConfig  `yaml:"postgres"`
}

// FirestoreConfig holds Firestore-specific settings.
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	AppID           string `yaml:"app_id"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CacheConfig holds seen-message cache settings.
type CacheConfig struct {
	Driver string        `yaml:"driver"` // memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// IngestConfig holds extraction pipeline settings.
type IngestConfig struct {
	AdvisorAttribution bool `yaml:"advisor_attribution"`
	SubjectStore       bool `yaml:"subject_store"`
	// Year overrides the processing year for friendly dates; zero means the
	// current year.
	Year int `yaml:"year"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mail: MailConfig{
			Server:  "imap.gmail.com:993",
			Mailbox: "INBOX",
			Subject: "Appt InSights",
			Limit:   3,
		},
		Store: StoreConfig{
			Driver: "firestore",
			Firestore: FirestoreConfig{
				CredentialsFile: "serviceAccountKey.json",
				AppID:           "simard-insights-app",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Cache: CacheConfig{
			Driver: "memory",
			TTL:    30 * 24 * time.Hour,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
			},
		},
		Ingest: IngestConfig{
			AdvisorAttribution: false,
			SubjectStore:       true,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store.Driver != "firestore" && c.Store.Driver != "postgres" {
		return fmt.Errorf("invalid store driver: %s", c.Store.Driver)
	}
	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}
	if c.Mail.Limit < 1 {
		return fmt.Errorf("mail limit must be at least 1")
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config. The
// EMAIL_USER/EMAIL_PASS names predate this service and stay for deployment
// compatibility.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IMAP_SERVER"); v != "" {
		cfg.Mail.Server = v
	}
	if v := os.Getenv("EMAIL_USER"); v != "" {
		cfg.Mail.Username = v
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		cfg.Mail.Password = v
	}
	if v := os.Getenv("SEARCH_SUBJECT"); v != "" {
		cfg.Mail.Subject = v
	}
	if v := os.Getenv("MAIL_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Mail.Limit = n
		}
	}

	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("FIRESTORE_PROJECT_ID"); v != "" {
		cfg.Store.Firestore.ProjectID = v
	}
	if v := os.Getenv("FIRESTORE_CREDENTIALS"); v != "" {
		cfg.Store.Firestore.CredentialsFile = v
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		cfg.Store.Driver = "postgres"
		cfg.Store.Postgres.DSN = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
