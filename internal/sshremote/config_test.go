package sshremote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SSH_HOST", "SSH_USERNAME", "SSH_PORT", "SSH_PASSWORD",
		"SSH_PRIVATE_KEY_PATH", "SSH_PRIVATE_KEY_CONTENT", "SSH_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SSH_HOST", "example.com")
	t.Setenv("SSH_USERNAME", "admin")
	t.Setenv("SSH_PASSWORD", "secret")
	t.Setenv("SSH_PORT", "2222")
	t.Setenv("SSH_TIMEOUT", "10")

	cfg := ConfigFromEnv()
	require.NotNil(t, cfg)
	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, 2222, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SSH_HOST", "example.com")
	t.Setenv("SSH_USERNAME", "admin")
	t.Setenv("SSH_PASSWORD", "secret")

	cfg := ConfigFromEnv()
	require.NotNil(t, cfg)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
}

func TestConfigFromEnvIncomplete(t *testing.T) {
	clearEnv(t)
	t.Setenv("SSH_HOST", "example.com")
	// No username, no auth method.
	assert.Nil(t, ConfigFromEnv())
}

func TestConfigFromEnvNoAuth(t *testing.T) {
	clearEnv(t)
	t.Setenv("SSH_HOST", "example.com")
	t.Setenv("SSH_USERNAME", "admin")
	assert.Nil(t, ConfigFromEnv())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Host: "example.com", Username: "admin", Password: "secret"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultTimeout, cfg.Timeout)

	assert.Error(t, (&Config{Username: "admin", Password: "x"}).Validate())
	assert.Error(t, (&Config{Host: "example.com", Username: "admin"}).Validate())
}

func TestAuthMethodLabel(t *testing.T) {
	assert.Equal(t, "password", (&Config{Password: "x"}).AuthMethodLabel())
	assert.Equal(t, "private key content", (&Config{PrivateKeyContent: "x"}).AuthMethodLabel())
	assert.Equal(t, "private key file", (&Config{PrivateKeyPath: "/tmp/key"}).AuthMethodLabel())
	assert.Equal(t, "none", (&Config{}).AuthMethodLabel())

	// Password wins over keys.
	both := &Config{Password: "x", PrivateKeyContent: "y", PrivateKeyPath: "/tmp/key"}
	assert.Equal(t, "password", both.AuthMethodLabel())
}
