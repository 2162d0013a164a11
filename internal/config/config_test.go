package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Pero MCP Server", cfg.Server.Name)
	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.False(t, cfg.Server.Debug)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
name = "Custom Server"
transport = "http"
port = 9090

[plugins.ssh]
enabled = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Custom Server", cfg.Server.Name)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.False(t, cfg.PluginEnabled("ssh"))
	assert.True(t, cfg.PluginEnabled("appstore"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadRejectsBadTransport(t *testing.T) {
	path := writeConfig(t, `
[server]
transport = "websocket"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 70000
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestPluginEnabledExplicitTrue(t *testing.T) {
	path := writeConfig(t, `
[plugins.googleplay]
enabled = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.PluginEnabled("googleplay"))
}
