package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 168, cfg.JWT.ExpirationHours)
	assert.Equal(t, "notes-service", cfg.JWT.Issuer)
	assert.Equal(t, 3, cfg.Quota.FreeNoteLimit)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_EXPIRATION_HOURS", "24")
	t.Setenv("FREE_PLAN_NOTE_LIMIT", "5")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, 5, cfg.Quota.FreeNoteLimit)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
}

func TestDSN(t *testing.T) {
	cfg := DBConfig{
		Host: "db", Port: "5432", User: "svc", Password: "pw",
		DBName: "notes", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=notes sslmode=disable", cfg.GetDSN())
}
