// Package googleplay retrieves Google Play financial and sales reports from
// the publisher's Cloud Storage bucket and exposes them as MCP tools.
package googleplay

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// serviceAccount mirrors the Google service-account JSON key layout.
type serviceAccount struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
	UniverseDomain          string `json:"universe_domain"`
}

// Config holds the assembled service-account key and bucket location.
type Config struct {
	ServiceAccountJSON []byte
	BucketSuffix       string // bucket is pubsite_prod_<suffix>
}

// Bucket returns the full report bucket name.
func (c *Config) Bucket() string {
	return "pubsite_prod_" + c.BucketSuffix
}

// ConfigFromEnv assembles a service-account key from the
// GOOGLE_PLAY_SERVICE_ACCOUNT_* variables. Escaped newlines in the private
// key are unescaped. It returns an error naming the missing variables.
func ConfigFromEnv() (*Config, error) {
	sa := serviceAccount{
		Type:                    envOr("GOOGLE_PLAY_SERVICE_ACCOUNT_TYPE", "service_account"),
		ProjectID:               os.Getenv("GOOGLE_PLAY_SERVICE_ACCOUNT_PROJECT_ID"),
		PrivateKeyID:            os.Getenv("GOOGLE_PLAY_SERVICE_ACCOUNT_PRIVATE_KEY_ID"),
		PrivateKey:              os.Getenv("GOOGLE_PLAY_SERVICE_ACCOUNT_PRIVATE_KEY"),
		ClientEmail:             os.Getenv("GOOGLE_PLAY_SERVICE_ACCOUNT_CLIENT_EMAIL"),
		ClientID:                os.Getenv("GOOGLE_PLAY_SERVICE_ACCOUNT_CLIENT_ID"),
		AuthURI:                 envOr("GOOGLE_PLAY_SERVICE_ACCOUNT_AUTH_URI", "https://accounts.google.com/o/oauth2/auth"),
		TokenURI:                envOr("GOOGLE_PLAY_SERVICE_ACCOUNT_TOKEN_URI", "https://oauth2.googleapis.com/token"),
		AuthProviderX509CertURL: envOr("GOOGLE_PLAY_SERVICE_ACCOUNT_AUTH_PROVIDER_X509_CERT_URL", "https://www.googleapis.com/oauth2/v1/certs"),
		ClientX509CertURL:       os.Getenv("GOOGLE_PLAY_SERVICE_ACCOUNT_CLIENT_X509_CERT_URL"),
		UniverseDomain:          envOr("GOOGLE_PLAY_SERVICE_ACCOUNT_UNIVERSE_DOMAIN", "googleapis.com"),
	}

	var missing []string
	for name, value := range map[string]string{
		"GOOGLE_PLAY_SERVICE_ACCOUNT_PROJECT_ID":     sa.ProjectID,
		"GOOGLE_PLAY_SERVICE_ACCOUNT_PRIVATE_KEY_ID": sa.PrivateKeyID,
		"GOOGLE_PLAY_SERVICE_ACCOUNT_PRIVATE_KEY":    sa.PrivateKey,
		"GOOGLE_PLAY_SERVICE_ACCOUNT_CLIENT_EMAIL":   sa.ClientEmail,
		"GOOGLE_PLAY_SERVICE_ACCOUNT_CLIENT_ID":      sa.ClientID,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	bucketSuffix := os.Getenv("GOOGLE_PLAY_CLOUD_STORAGE_BUCKET")
	if bucketSuffix == "" {
		return nil, fmt.Errorf("missing environment variable: GOOGLE_PLAY_CLOUD_STORAGE_BUCKET")
	}

	sa.PrivateKey = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")

	data, err := json.Marshal(sa)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble service account key: %w", err)
	}

	return &Config{ServiceAccountJSON: data, BucketSuffix: bucketSuffix}, nil
}

func envOr(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
