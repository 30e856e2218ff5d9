package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims AdminClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseAdminTokenVerified(t *testing.T) {
	now := time.Now().UTC()
	cfg := config.JWTConfig{Secret: "secret", Issuer: "shop-backend"}
	token := signToken(t, "secret", AdminClaims{
		UserID: "u-1",
		Email:  "admin@example.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shop-backend",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	claims, err := ParseAdminToken(cfg, "Bearer "+token, now)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.True(t, claims.HasRole("ADMIN"))
	require.False(t, claims.HasRole("user"))
}

func TestParseAdminTokenInvalidSignature(t *testing.T) {
	now := time.Now()
	token := signToken(t, "other", AdminClaims{Role: "admin"})
	_, err := ParseAdminToken(config.JWTConfig{Secret: "secret"}, token, now)
	require.Error(t, err)
}

func TestParseAdminTokenExpired(t *testing.T) {
	now := time.Now()
	claims := AdminClaims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))},
	}

	_, err := ParseAdminToken(config.JWTConfig{Secret: "secret"}, signToken(t, "secret", claims), now)
	require.True(t, errors.Is(err, ErrTokenExpired), "verified path: %v", err)

	_, err = ParseAdminToken(config.JWTConfig{}, signToken(t, "whatever", claims), now)
	require.True(t, errors.Is(err, ErrTokenExpired), "unverified path: %v", err)
}

func TestParseAdminTokenUnverifiedDecodesClaims(t *testing.T) {
	token := signToken(t, "backend-only-secret", AdminClaims{UserID: "u-9", Role: "user"})
	claims, err := ParseAdminToken(config.JWTConfig{}, token, time.Now())
	require.NoError(t, err)
	require.Equal(t, "user", claims.Role)
}

func TestParseAdminTokenRejectsGarbage(t *testing.T) {
	_, err := ParseAdminToken(config.JWTConfig{}, "", time.Now())
	require.Error(t, err)
	_, err = ParseAdminToken(config.JWTConfig{}, "not-a-jwt", time.Now())
	require.Error(t, err)
}

func TestStripBearer(t *testing.T) {
	require.Equal(t, "abc", StripBearer("Bearer abc"))
	require.Equal(t, "abc", StripBearer("bearer   abc "))
	require.Equal(t, "abc", StripBearer("abc"))
}
