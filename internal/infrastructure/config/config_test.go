package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 90*24*time.Hour, cfg.Issues.TokenTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.Issues.AutoCloseAfter)
	assert.Equal(t, "high", cfg.Issues.EscalationSeverity)
	assert.Equal(t, 10, cfg.RateLimit.Submit.Limit)
	assert.Equal(t, time.Hour, cfg.RateLimit.Submit.Window)
	assert.False(t, cfg.Redis.Enabled)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
database:
  driver: sqlite
  database: candor.db
issues:
  escalation_severity: critical
`), 0o600))

	t.Setenv("CANDOR_SERVER_PORT", "7070")
	t.Setenv("CANDOR_AUTH_JWT_SECRET", "from-env")

	cfg, err := Load("release", path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "candor.db", cfg.Database.GetDSN())
	assert.Equal(t, "critical", cfg.Issues.EscalationSeverity)
	assert.Equal(t, "from-env", cfg.Auth.JWT.Secret)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", "")
	require.NoError(t, err)

	bad := *cfg
	bad.Database.Driver = "oracle"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Auth.JWT.Secret = ""
	assert.Error(t, bad.Validate())
}
