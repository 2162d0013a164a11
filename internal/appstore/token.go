package appstore

import (
	"crypto/ecdsa"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// tokenTTL matches the App Store Connect maximum of 20 minutes.
	tokenTTL = 20 * time.Minute
	// renewMargin is how long before expiry a cached token is replaced.
	renewMargin = 60 * time.Second

	tokenAudience = "appstoreconnect-v1"
)

// tokenSource mints ES256 bearer tokens for the configured key and caches
// them until 60 seconds before expiry. Concurrent callers mint at most one
// token.
type tokenSource struct {
	keyID    string
	issuerID string
	key      *ecdsa.PrivateKey

	now func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// newTokenSource parses the PEM key material and prepares a source.
func newTokenSource(cfg *Config) (*tokenSource, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &tokenSource{
		keyID:    cfg.KeyID,
		issuerID: cfg.IssuerID,
		key:      key,
		now:      time.Now,
	}, nil
}

// bearer returns a valid token, reusing the cached one while it has more
// than renewMargin of life left.
func (ts *tokenSource) bearer() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	if ts.token != "" && now.Before(ts.expiry.Add(-renewMargin)) {
		return ts.token, nil
	}

	expiry := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"iss": ts.issuerID,
		"iat": now.Unix(),
		"exp": expiry.Unix(),
		"aud": tokenAudience,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = ts.keyID

	signed, err := token.SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	ts.token = signed
	ts.expiry = expiry
	return signed, nil
}
