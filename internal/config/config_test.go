package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 720*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 10, cfg.PasswordHashCost)
	assert.Equal(t, "superadmin", cfg.SuperAdminUsername)
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION", "48h")
	t.Setenv("PASSWORD_HASH_COST", "12")
	t.Setenv("SUPERADMIN_EMAIL", "root@example.com")

	cfg, err := ParseConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 48*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 12, cfg.PasswordHashCost)
	assert.Equal(t, "root@example.com", cfg.SuperAdminEmail)
}

func TestParseConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "thirty days")

	_, err := ParseConfig()
	assert.Error(t, err)
}
