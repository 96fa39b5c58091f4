package config_test

import (
	"testing"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "GO_ENV", "LOG_LEVEL", "ADMIN_EMAIL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_JWTSecretRequired(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.GoEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.AdminEmail)
}

// DSNとログレベルもConfig経由で配る
func TestLoad_ReadsAllFields(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://app:app@db:5432/sweetshop")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GO_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ADMIN_EMAIL", "boss@example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://app:app@db:5432/sweetshop", cfg.DatabaseURL)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "prod", cfg.GoEnv)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "boss@example.com", cfg.AdminEmail)
}
