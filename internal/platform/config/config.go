// Package config builds the process configuration. Environment variables are
// the source of truth; an optional TOML file (PORTAL_CONFIG) supplies defaults
// for values the environment leaves unset, so deployments can ship a checked-in
// base file and override per environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Auth captures portal session token configuration.
type Auth struct {
	JWTSigningKey string        `toml:"jwt_signing_key"`
	Issuer        string        `toml:"issuer"`
	Audience      string        `toml:"audience"`
	TokenTTL      time.Duration `toml:"token_ttl"`
}

// Postgres captures relational storage configuration. An empty DSN selects the
// in-memory stores seeded from fixtures.
type Postgres struct {
	DSN string `toml:"dsn"`
}

// Redis captures wizard session store configuration. An empty URL selects the
// in-memory session store.
type Redis struct {
	URL          string        `toml:"url"`
	PoolSize     int           `toml:"pool_size"`
	MinIdleConns int           `toml:"min_idle_conns"`
	DialTimeout  time.Duration `toml:"dial_timeout"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Kafka captures audit event streaming configuration. No brokers means audit
// events stay on the local store sink only.
type Kafka struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// Payment captures the payment provider client configuration.
type Payment struct {
	BaseURL  string        `toml:"base_url"`
	APIKey   string        `toml:"api_key"`
	Currency string        `toml:"currency"`
	Timeout  time.Duration `toml:"timeout"`
}

// Accounts captures the hosted account provider configuration. An empty base
// URL selects the in-process provider backed by the member store.
type Accounts struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// Config is the full process configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Auth     Auth     `toml:"auth"`
	Postgres Postgres `toml:"postgres"`
	Redis    Redis    `toml:"redis"`
	Kafka    Kafka    `toml:"kafka"`
	Payment  Payment  `toml:"payment"`
	Accounts Accounts `toml:"accounts"`

	// WizardTTL bounds how long an abandoned application or payment wizard
	// session survives in the session store.
	WizardTTL time.Duration `toml:"wizard_ttl"`
}

// Defaults returns the baseline configuration used when neither the file nor
// the environment specifies a value.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: Auth{
			// Development fallback; must be overridden in production.
			JWTSigningKey: "dev-secret-key-change-in-production",
			Issuer:        "neuroportal",
			Audience:      "neuroportal-members",
			TokenTTL:      time.Hour,
		},
		Redis: Redis{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Topic: "portal.audit.events",
		},
		Payment: Payment{
			Currency: "USD",
			Timeout:  15 * time.Second,
		},
		WizardTTL: 24 * time.Hour,
	}
}

// Load builds the configuration from defaults, the optional TOML file named by
// PORTAL_CONFIG, and finally the environment.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("PORTAL_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// FromEnv builds a config from defaults and environment only, so main and
// tests stay lean when no file is involved.
func FromEnv() Config {
	cfg := Defaults()
	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "PORTAL_ADDR")
	setDuration(&cfg.Server.ShutdownTimeout, "PORTAL_SHUTDOWN_TIMEOUT")

	setString(&cfg.Auth.JWTSigningKey, "JWT_SIGNING_KEY")
	setString(&cfg.Auth.Issuer, "JWT_ISSUER")
	setString(&cfg.Auth.Audience, "JWT_AUDIENCE")
	setDuration(&cfg.Auth.TokenTTL, "JWT_TOKEN_TTL")

	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")

	setString(&cfg.Redis.URL, "REDIS_URL")
	setInt(&cfg.Redis.PoolSize, "REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MinIdleConns, "REDIS_MIN_IDLE_CONNS")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	setString(&cfg.Kafka.Topic, "KAFKA_AUDIT_TOPIC")

	setString(&cfg.Payment.BaseURL, "PAYMENT_BASE_URL")
	setString(&cfg.Payment.APIKey, "PAYMENT_API_KEY")
	setString(&cfg.Payment.Currency, "PAYMENT_CURRENCY")
	setDuration(&cfg.Payment.Timeout, "PAYMENT_TIMEOUT")

	setString(&cfg.Accounts.BaseURL, "ACCOUNTS_BASE_URL")
	setString(&cfg.Accounts.APIKey, "ACCOUNTS_API_KEY")

	setDuration(&cfg.WizardTTL, "WIZARD_TTL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
