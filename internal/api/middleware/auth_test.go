package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAdmin = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func newRSAKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	key, publicPEM := newRSAKey(t)
	otherKey, _ := newRSAKey(t)
	cfg := AuthConfig{JWTPublicKey: publicPEM, APIKeys: []string{"key-1", ""}, Admin: testAdmin}

	alice := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	valid := signToken(t, key, jwt.RegisteredClaims{
		Subject:   alice,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	tests := []struct {
		name       string
		header     string
		cfg        AuthConfig
		success    bool
		authType   string
		caller     common.Address
		errMessage string
	}{
		{name: "jwt subject is the caller", header: "Bearer " + valid, cfg: cfg, success: true, authType: "jwt", caller: common.HexToAddress(alice)},
		{name: "api key acts as admin", header: "ApiKey key-1", cfg: cfg, success: true, authType: "apikey", caller: testAdmin},
		{name: "scheme is case insensitive", header: "apikey key-1", cfg: cfg, success: true, authType: "apikey", caller: testAdmin},
		{name: "missing header", header: "", cfg: cfg, errMessage: "missing Authorization header"},
		{name: "malformed header", header: "Bearer", cfg: cfg, errMessage: "invalid Authorization header format"},
		{name: "unsupported scheme", header: "Basic abc", cfg: cfg, errMessage: "unsupported authorization type"},
		{name: "unknown api key", header: "ApiKey key-2", cfg: cfg, errMessage: "invalid API key"},
		{name: "empty api key is never valid", header: "ApiKey ", cfg: cfg, errMessage: "invalid API key"},
		{name: "no api keys configured", header: "ApiKey key-1", cfg: AuthConfig{Admin: testAdmin}, errMessage: "no API keys configured"},
		{
			name: "expired token",
			header: "Bearer " + signToken(t, key, jwt.RegisteredClaims{
				Subject:   alice,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}),
			cfg:        cfg,
			errMessage: "failed to parse token",
		},
		{
			name:       "token signed by another key",
			header:     "Bearer " + signToken(t, otherKey, jwt.RegisteredClaims{Subject: alice}),
			cfg:        cfg,
			errMessage: "failed to parse token",
		},
		{
			name:       "subject is not an address",
			header:     "Bearer " + signToken(t, key, jwt.RegisteredClaims{Subject: "user-42"}),
			cfg:        cfg,
			errMessage: "token subject is not an address",
		},
		{name: "jwt not configured", header: "Bearer " + valid, cfg: AuthConfig{APIKeys: []string{"key-1"}}, errMessage: "JWT public key not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Authenticate(tt.header, tt.cfg)
			assert.Equal(t, tt.success, result.Success)
			if !tt.success {
				require.Error(t, result.Error)
				assert.Contains(t, result.Error.Error(), tt.errMessage)
				return
			}
			require.NoError(t, result.Error)
			assert.Equal(t, tt.authType, result.AuthType)
			assert.Equal(t, tt.caller, result.Caller)
		})
	}
}
