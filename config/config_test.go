package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("BILLKIT_SECRET_KEY", "sk_test")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk_test", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BILLKIT_SECRET_KEY", "sk_live")
	t.Setenv("BILLKIT_BASE_URL", "https://staging.billkit.co/v1/")
	t.Setenv("BILLKIT_TIMEOUT", "10s")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk_live", cfg.APIKey)
	// Trailing slash is stripped
	assert.Equal(t, "https://staging.billkit.co/v1", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestNewConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath,
		[]byte("BILLKIT_SECRET_KEY=sk_from_file\n"), 0o600))

	os.Unsetenv("BILLKIT_SECRET_KEY")
	t.Cleanup(func() { os.Unsetenv("BILLKIT_SECRET_KEY") })

	cfg, err := NewConfig(envPath)
	require.NoError(t, err)
	assert.Equal(t, "sk_from_file", cfg.APIKey)
}

func TestNewConfig_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath,
		[]byte("BILLKIT_SECRET_KEY=sk_from_file\n"), 0o600))

	t.Setenv("BILLKIT_SECRET_KEY", "sk_from_env")

	cfg, err := NewConfig(envPath)
	require.NoError(t, err)
	assert.Equal(t, "sk_from_env", cfg.APIKey)
}

func TestNewConfig_MissingEnvFileIgnored(t *testing.T) {
	t.Setenv("BILLKIT_SECRET_KEY", "sk_test")

	cfg, err := NewConfig("/nonexistent/.env")
	require.NoError(t, err)
	assert.Equal(t, "sk_test", cfg.APIKey)
}
