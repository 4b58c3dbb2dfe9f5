package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeShadow = "shadow"
	ModeLive   = "live"

	CatalogueStatic   = "static"
	CataloguePostgres = "postgres"
)

type Config struct {
	DB       DBConfig
	HTTP     HTTPConfig
	Telegram TelegramConfig
	Store    StoreConfig
	Log      LogConfig
	// Mode is "shadow" or "live"
	Mode              string
	StaffPasswordHash string
	AutoMigrate       bool

	// SessionIdleTimeout ends sessions without commands; 0 keeps them forever.
	SessionIdleTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int32
}

type HTTPConfig struct {
	Addr        string
	CORSOrigins []string
}

type TelegramConfig struct {
	Token string // bot disabled when empty
}

type StoreConfig struct {
	ID              string
	CatalogueSource string
}

type LogConfig struct {
	Level       string
	Format      string
	Environment string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_CONNS: %w", err)
	}

	idle, err := time.ParseDuration(getEnv("SESSION_IDLE_TIMEOUT", "15m"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_IDLE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "drivethru"),
			MaxConns: int32(maxConns),
		},
		HTTP: HTTPConfig{
			Addr:        getEnv("HTTP_ADDR", ":8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		Store: StoreConfig{
			ID:              getEnv("STORE_ID", "default"),
			CatalogueSource: getEnv("CATALOGUE_SOURCE", CatalogueStatic),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Mode:               strings.ToLower(getEnv("MODE", ModeShadow)),
		StaffPasswordHash:  getEnv("STAFF_PASSWORD_HASH", ""),
		AutoMigrate:        isTrue(os.Getenv("AUTO_MIGRATE")),
		SessionIdleTimeout: idle,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings this build cannot serve.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeShadow:
	case ModeLive:
		return fmt.Errorf("MODE=live: no live POS adapter is available, use MODE=shadow")
	default:
		return fmt.Errorf("MODE: unknown value %q", c.Mode)
	}
	switch c.Store.CatalogueSource {
	case CatalogueStatic, CataloguePostgres:
	default:
		return fmt.Errorf("CATALOGUE_SOURCE: unknown value %q", c.Store.CatalogueSource)
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.SessionIdleTimeout < 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func isTrue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
