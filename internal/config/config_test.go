package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv(func(string) string { return "" })

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "dairy-farm-management", cfg.AppName)
	assert.Empty(t, cfg.DBDSN)
	assert.True(t, cfg.MigrateOnStart)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	env := map[string]string{
		"PORT":              "9090",
		"DB_DSN":            "postgres://farm@localhost/farm",
		"SESSION_TTL":       "30m",
		"MIGRATE_ON_START":  "false",
		"HTTP_READ_TIMEOUT": "bogus",
	}
	cfg := FromEnv(func(k string) string { return env[k] })

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "postgres://farm@localhost/farm", cfg.DBDSN)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
}
