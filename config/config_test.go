package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 実際のユーザー設定に影響されないようにXDG_CONFIG_HOMEを隔離します
func isolateConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SHORTCUT_API_TOKEN", "")
	t.Setenv("SHORTCUT_API_URL", "")
	return dir
}

func TestLoadConfigFlagTokenWins(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("SHORTCUT_API_TOKEN", "env-token")

	cfg, err := LoadConfig("flag-token")
	require.NoError(t, err)
	assert.Equal(t, "flag-token", cfg.APIToken)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestLoadConfigEnvToken(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("SHORTCUT_API_TOKEN", "env-token")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.APIToken)
}

func TestLoadConfigBaseURLTrimsTrailingSlash(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("SHORTCUT_API_TOKEN", "x")
	t.Setenv("SHORTCUT_API_URL", "https://example.test/api/v3/")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/api/v3", cfg.BaseURL)
}

func TestLoadConfigFileToken(t *testing.T) {
	dir := isolateConfigDir(t)

	appDir := filepath.Join(dir, "shortcutbulk")
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(appDir, "config.yaml"),
		[]byte("api_token: file-token\n"), 0o600))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.APIToken)
}

func TestLoadConfigMissingToken(t *testing.T) {
	isolateConfigDir(t)

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHORTCUT_API_TOKEN")
}
