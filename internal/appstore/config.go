// Package appstore exposes the App Store Connect API as MCP tools,
// resources and prompts.
package appstore

import (
	"errors"
	"os"
)

// Config holds the App Store Connect API credentials. Set once per process
// via the configure tool or environment variables; a later configure call
// overwrites the whole set.
type Config struct {
	KeyID        string
	IssuerID     string
	PrivateKey   string // PEM-encoded EC private key
	AppID        string // optional
	VendorNumber string // optional, required for sales/finance reports
}

// ConfigFromEnv builds a Config from APPSTORE_* environment variables. It
// returns nil when any required variable is absent.
func ConfigFromEnv() *Config {
	cfg := &Config{
		KeyID:        os.Getenv("APPSTORE_KEY_ID"),
		IssuerID:     os.Getenv("APPSTORE_ISSUER_ID"),
		PrivateKey:   os.Getenv("APPSTORE_PRIVATE_KEY"),
		AppID:        os.Getenv("APPSTORE_APP_ID"),
		VendorNumber: os.Getenv("APPSTORE_VENDOR_NUMBER"),
	}
	if cfg.Validate() != nil {
		return nil
	}
	return cfg
}

// Validate checks that the required credential fields are present.
func (c *Config) Validate() error {
	if c.KeyID == "" || c.IssuerID == "" || c.PrivateKey == "" {
		return errors.New("key_id, issuer_id and private_key are required")
	}
	return nil
}
