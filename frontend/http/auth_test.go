package http

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/sot-tech/nacre/pkg/conf"
)

func startAuthFrontend(t *testing.T, auth map[string]any) string {
	t.Helper()
	// nolint:gosec
	a := fmt.Sprintf("127.0.0.1:%d", rand.Int63n(10000)+27000)
	_, err := NewFrontend(conf.MapConfig{
		"addr":        a,
		"ping_routes": []string{"/ping"},
		"auth":        auth,
	})
	require.NoError(t, err)
	waitUp(a)
	return a
}

func getWithToken(t *testing.T, u, token string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, u, nil)
	require.NoError(t, err)
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = r.Body.Close()
	return r.StatusCode
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthSecret(t *testing.T) {
	const secret = "s3cr3t"
	a := startAuthFrontend(t, map[string]any{
		"secret": secret,
		"issuer": "nacre-test",
	})
	u := "http://" + a + "/status"

	claims := jwt.MapClaims{
		"iss": "nacre-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	require.Equal(t, http.StatusUnauthorized, getWithToken(t, u, ""))
	require.Equal(t, http.StatusUnauthorized, getWithToken(t, u, "garbage"))
	require.Equal(t, http.StatusOK, getWithToken(t, u, signHS256(t, secret, claims)))
	require.Equal(t, http.StatusUnauthorized, getWithToken(t, u, signHS256(t, "wrong", claims)))
	require.Equal(t, http.StatusUnauthorized, getWithToken(t, u, signHS256(t, secret, jwt.MapClaims{
		"iss": "nacre-test",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})))
	require.Equal(t, http.StatusUnauthorized, getWithToken(t, u, signHS256(t, secret, jwt.MapClaims{
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})))
	// exp claim is mandatory
	require.Equal(t, http.StatusUnauthorized, getWithToken(t, u, signHS256(t, secret, jwt.MapClaims{
		"iss": "nacre-test",
	})))

	// ping is exempt
	require.Equal(t, http.StatusOK, getWithToken(t, "http://"+a+"/ping", ""))

	// token in query also accepted
	r, err := http.Get(u + "?jwt=" + signHS256(t, secret, claims))
	require.NoError(t, err)
	_ = r.Body.Close()
	require.Equal(t, http.StatusOK, r.StatusCode)
}

func TestAuthJWKSetFile(t *testing.T) {
	const kid = "test-key"
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	jwk, err := jwkset.NewJWKFromKey(pub, jwkset.JWKOptions{
		Metadata: jwkset.JWKMetadataOptions{
			KID: kid,
			ALG: jwkset.AlgEdDSA,
			USE: jwkset.UseSig,
		},
	})
	require.NoError(t, err)

	ctx := context.Background()
	store := jwkset.NewMemoryStorage()
	require.NoError(t, store.KeyWrite(ctx, jwk))
	raw, err := store.JSONPublic(ctx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "jwks.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	a := startAuthFrontend(t, map[string]any{"jwk_set_file": path})
	u := "http://" + a + "/status"

	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tok.Header["kid"] = kid
	signed, err := tok.SignedString(priv)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getWithToken(t, u, signed))

	// token signed by a foreign key must be rejected
	_, otherPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	other := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	other.Header["kid"] = kid
	otherSigned, err := other.SignedString(otherPriv)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, getWithToken(t, u, otherSigned))
}

func TestAuthConfigEmpty(t *testing.T) {
	require.True(t, AuthConfig{}.empty())
	require.False(t, AuthConfig{Secret: "x"}.empty())
	require.False(t, AuthConfig{JWKSetURL: "http://localhost/jwks.json"}.empty())
	require.False(t, AuthConfig{JWKSetFile: "jwks.json"}.empty())
}
