package appstore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPEM(t *testing.T) (string, *ecdsa.PrivateKey) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	block := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	return string(block), key
}

func testConfig(t *testing.T) (*Config, *ecdsa.PrivateKey) {
	pemKey, key := testKeyPEM(t)
	return &Config{
		KeyID:        "TESTKEY123",
		IssuerID:     "issuer-uuid",
		PrivateKey:   pemKey,
		VendorNumber: "85012345",
	}, key
}

func TestNewTokenSourceRejectsBadKey(t *testing.T) {
	_, err := newTokenSource(&Config{
		KeyID:      "k",
		IssuerID:   "i",
		PrivateKey: "not a pem key",
	})
	require.Error(t, err)
}

func TestBearerClaims(t *testing.T) {
	cfg, key := testConfig(t)
	ts, err := newTokenSource(cfg)
	require.NoError(t, err)

	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return issued }

	signed, err := ts.bearer()
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"ES256"}), jwt.WithTimeFunc(func() time.Time { return issued }))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "TESTKEY123", parsed.Header["kid"])

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "issuer-uuid", claims["iss"])
	assert.Equal(t, tokenAudience, claims["aud"])
	assert.Equal(t, float64(issued.Unix()), claims["iat"])
	assert.Equal(t, float64(issued.Add(tokenTTL).Unix()), claims["exp"])
}

func TestBearerReusesCachedToken(t *testing.T) {
	cfg, _ := testConfig(t)
	ts, err := newTokenSource(cfg)
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return now }

	first, err := ts.bearer()
	require.NoError(t, err)

	// Still well inside the token's lifetime.
	now = now.Add(10 * time.Minute)
	second, err := ts.bearer()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBearerRenewsNearExpiry(t *testing.T) {
	cfg, _ := testConfig(t)
	ts, err := newTokenSource(cfg)
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return now }

	first, err := ts.bearer()
	require.NoError(t, err)

	// Within the renewal margin of expiry: a fresh token must be minted.
	now = now.Add(tokenTTL - renewMargin)
	second, err := ts.bearer()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
