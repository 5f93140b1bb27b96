// Package jwttest firma keys con la forma de las de Supabase para tests.
package jwttest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/agenda-api/pkg/jwt"
)

// Secret con el que se firman las keys de ServiceKey.
const Secret = "test-secret"

// ServiceKey firma con Secret una key con el rol, la referencia y la vigencia indicados.
func ServiceKey(t testing.TB, role, ref string, ttl time.Duration) string {
	t.Helper()
	return SignedKey(t, Secret, role, ref, ttl)
}

// SignedKey como ServiceKey pero con otro secreto.
func SignedKey(t testing.TB, secret, role, ref string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := pkgjwt.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "supabase",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
		Ref:  ref,
	}
	key, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return key
}
