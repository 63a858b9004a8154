package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port    string
	AppName string

	// DBDSN vacío => store in-memory.
	DBDSN          string
	MigrateOnStart bool

	LogLevel  string
	LogFormat string

	SessionTTL time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	BootstrapOwnerEmail    string
	BootstrapOwnerPassword string

	MetricsEnabled bool
}

// Load lee .env (si existe) y luego el entorno.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[cfg] error loading .env: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv permite inyectar el lookup en tests.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	return AppConfig{
		Port:                   get("PORT", "8080"),
		AppName:                get("APP_NAME", "dairy-farm-management"),
		DBDSN:                  get("DB_DSN", ""),
		MigrateOnStart:         parseBool(get("MIGRATE_ON_START", "true"), true),
		LogLevel:               get("LOG_LEVEL", "info"),
		LogFormat:              get("LOG_FORMAT", "text"),
		SessionTTL:             parseDuration(get("SESSION_TTL", "24h"), 24*time.Hour),
		ReadTimeout:            parseDuration(get("HTTP_READ_TIMEOUT", "5s"), 5*time.Second),
		WriteTimeout:           parseDuration(get("HTTP_WRITE_TIMEOUT", "10s"), 10*time.Second),
		BootstrapOwnerEmail:    get("BOOTSTRAP_OWNER_EMAIL", ""),
		BootstrapOwnerPassword: get("BOOTSTRAP_OWNER_PASSWORD", ""),
		MetricsEnabled:         parseBool(get("METRICS_ENABLED", "true"), true),
	}
}

func (c AppConfig) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
