package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedKey la clave no tiene la forma header.payload.signature.
var ErrMalformedKey = errors.New("jwt: la clave debe tener tres partes separadas por puntos")

// Claims claims de una API key de Supabase.
// Role es el rol de PostgreSQL con el que opera la key (service_role, anon).
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	Ref  string `json:"ref"` // referencia del proyecto
}

// ServiceKey datos extraídos de la key sin verificar la firma (el secreto lo tiene Supabase).
type ServiceKey struct {
	Role      string
	Ref       string
	ExpiresAt time.Time
}

// InspectServiceKey valida la estructura de la key y extrae sus claims.
// No verifica la firma; solo detecta keys copiadas de forma incompleta o con formato erróneo.
func InspectServiceKey(key string) (*ServiceKey, error) {
	key = strings.TrimSpace(key)
	if len(strings.Split(key, ".")) != 3 {
		return nil, ErrMalformedKey
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return nil, fmt.Errorf("jwt: key ilegible: %w", err)
	}
	sk := &ServiceKey{Role: claims.Role, Ref: claims.Ref}
	if claims.ExpiresAt != nil {
		sk.ExpiresAt = claims.ExpiresAt.Time
	}
	return sk, nil
}
