// Package sshremote exposes remote shell access over a single SSH session
// as MCP tools, resources and prompts.
package sshremote

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort    = 22
	defaultTimeout = 30 * time.Second
)

// Config holds the connection parameters for the session.
type Config struct {
	Host              string
	Username          string
	Port              int
	Password          string
	PrivateKeyPath    string
	PrivateKeyContent string
	Timeout           time.Duration
}

// ConfigFromEnv builds a Config from SSH_* environment variables. It returns
// nil when the required variables are absent or no auth method is supplied.
func ConfigFromEnv() *Config {
	cfg := &Config{
		Host:              os.Getenv("SSH_HOST"),
		Username:          os.Getenv("SSH_USERNAME"),
		Port:              defaultPort,
		Password:          os.Getenv("SSH_PASSWORD"),
		PrivateKeyPath:    os.Getenv("SSH_PRIVATE_KEY_PATH"),
		PrivateKeyContent: os.Getenv("SSH_PRIVATE_KEY_CONTENT"),
		Timeout:           defaultTimeout,
	}

	if port, err := strconv.Atoi(os.Getenv("SSH_PORT")); err == nil && port > 0 {
		cfg.Port = port
	}
	if secs, err := strconv.Atoi(os.Getenv("SSH_TIMEOUT")); err == nil && secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	if cfg.Validate() != nil {
		return nil
	}
	return cfg
}

// Validate checks that the config is complete enough to dial.
func (c *Config) Validate() error {
	if c.Host == "" || c.Username == "" {
		return errors.New("host and username are required")
	}
	if c.Password == "" && c.PrivateKeyPath == "" && c.PrivateKeyContent == "" {
		return errors.New("no authentication method provided (password or private key required)")
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// AuthMethodLabel names the auth method for status views, without exposing
// the secret itself.
func (c *Config) AuthMethodLabel() string {
	switch {
	case c.Password != "":
		return "password"
	case c.PrivateKeyContent != "":
		return "private key content"
	case c.PrivateKeyPath != "":
		return "private key file"
	default:
		return "none"
	}
}
