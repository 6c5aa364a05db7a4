package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 30*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Empty(t, cfg.TeamsAPIURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SUBMIT_TIMEOUT", "5s")
	t.Setenv("SESSION_IDLE_TIMEOUT", "not-a-duration")
	t.Setenv("TEAMS_API_URL", "http://teams.internal")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "http://teams.internal", cfg.TeamsAPIURL)
}

func TestLoad_MissingSecretPanics(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { _, _ = Load() })
}

func TestLoadClient(t *testing.T) {
	t.Setenv("HARBOR_API_URL", "http://harbor:8080")
	t.Setenv("HARBOR_TOKEN", "abc")

	cfg := LoadClient()

	assert.Equal(t, "http://harbor:8080", cfg.APIURL)
	assert.Equal(t, "abc", cfg.Token)
	assert.Empty(t, cfg.ClientID)
}
