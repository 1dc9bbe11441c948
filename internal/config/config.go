package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/split-ledger/split_ledger/internal/amount"
)

const (
	defaultAppName       = "SplitLedger"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultDenom         = "usei"
	defaultAddressPrefix = "sei"
	defaultSendFee       = "1"
	defaultShutdown      = 10 * time.Second
	defaultIdemTTL       = 24 * time.Hour
	defaultRatePerMin    = 30

	shutdownEnvVar = "SHUTDOWN_TIMEOUT"
	idemTTLEnvVar  = "IDEMPOTENCY_TTL"
)

// Config captures application runtime configuration loaded from environment
// variables.
type Config struct {
	AppName        string
	Env            string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	Denom          string
	AddressPrefix  string
	OwnerAddress   string
	SendFee        amount.Amount
	InitAllowFunds bool
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	RatePerMinute  int
}

// Load reads configuration values from the environment and populates a
// Config instance. Outside development, Postgres and Redis URLs are
// mandatory; in development the service falls back to in-memory backends.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		Env:            strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		Denom:          getEnv("DENOM", defaultDenom),
		AddressPrefix:  getEnv("ADDRESS_PREFIX", defaultAddressPrefix),
		OwnerAddress:   os.Getenv("OWNER_ADDRESS"),
		ShutdownPeriod: defaultShutdown,
		IdempotencyTTL: defaultIdemTTL,
		RatePerMinute:  defaultRatePerMin,
	}

	fee, err := amount.Parse(getEnv("SEND_FEE", defaultSendFee))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SEND_FEE: %w", err)
	}
	cfg.SendFee = fee

	if v := os.Getenv("INIT_ALLOW_FUNDS"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid INIT_ALLOW_FUNDS: %w", err)
		}
		cfg.InitAllowFunds = allow
	}

	if v := os.Getenv(shutdownEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(idemTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLEnvVar, err)
		}
		cfg.IdempotencyTTL = d
	}

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
		}
		cfg.RatePerMinute = n
	}

	if cfg.OwnerAddress == "" {
		return Config{}, fmt.Errorf("OWNER_ADDRESS must be set")
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.Env)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.Env)
		}
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	switch c.Env {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
