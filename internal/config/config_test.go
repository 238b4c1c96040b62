package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv("/nonexistent/.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "./data", cfg.Store.DataPath)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, "https://api.github.com", cfg.Remote.BaseURL)
	assert.Equal(t, "gemini-2.0-flash", cfg.Recommend.Model)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 720*time.Hour, cfg.Auth.AccessTokenDuration)
}

func TestLoadConfigFromEnv_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ADMIN_EMAIL", "owner@example.org")
	t.Setenv("ACCESS_TOKEN_DURATION", "24h")

	cfg, err := LoadConfigFromEnv("/nonexistent/.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "owner@example.org", cfg.Admin.Email)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenDuration)
}

func TestLoadConfigFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

	_, err := LoadConfigFromEnv("/nonexistent/.env")
	assert.Error(t, err)
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")

	content := "# comment line\nTEST_CFG_REPO=owner/library\nTEST_CFG_QUOTED=\"quoted value\"\n\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TEST_CFG_REPO")
		os.Unsetenv("TEST_CFG_QUOTED")
	})

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "owner/library", os.Getenv("TEST_CFG_REPO"))
	assert.Equal(t, "quoted value", os.Getenv("TEST_CFG_QUOTED"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_CFG_KEEP", "original")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TEST_CFG_KEEP=replaced\n"), 0o600))

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "original", os.Getenv("TEST_CFG_KEEP"))
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "development"}}
	assert.True(t, cfg.IsDevelopment())

	cfg.App.Environment = "production"
	assert.False(t, cfg.IsDevelopment())
}
