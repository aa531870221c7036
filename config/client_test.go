package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HACKPORTAL_ENV", "")
	t.Setenv("HACKPORTAL_API_URL", "")
	t.Setenv("HACKPORTAL_SESSION_FILE", "")

	cfg, err := LoadClient(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, DevelopmentAPIURL, cfg.BaseURL())
	assert.Equal(t, "session.json", filepath.Base(cfg.SessionFile))
}

func TestLoadClient_FileThenEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: production\nsession_file: /tmp/s.json\n"), 0o600))

	t.Setenv("HACKPORTAL_ENV", "")
	t.Setenv("HACKPORTAL_API_URL", "")
	t.Setenv("HACKPORTAL_SESSION_FILE", "")

	cfg, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, ProductionAPIURL, cfg.BaseURL())
	assert.Equal(t, "/tmp/s.json", cfg.SessionFile)

	t.Setenv("HACKPORTAL_API_URL", "http://127.0.0.1:9000/api/")
	cfg, err = LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/api", cfg.BaseURL())
}

func TestLoadClient_UnknownEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HACKPORTAL_ENV", "staging")
	t.Setenv("HACKPORTAL_API_URL", "")
	t.Setenv("HACKPORTAL_SESSION_FILE", "")

	_, err := LoadClient(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestLoad_MemoryModeDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("SERVER_PORT", "5001")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseMemoryStore())
	assert.Equal(t, devJWTSecret, cfg.JWTSecretKey)
	assert.Equal(t, 5001, cfg.ServerPort)
	assert.Equal(t, "http://localhost:5001", cfg.PublicBaseURL)
	assert.False(t, cfg.R2Configured())
}

func TestLoad_RequiresSecretWithDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hack")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}
