package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("secret-key")

// SetSigningKey overrides the signing key, normally from configuration at startup
func SetSigningKey(key string) {
	if key != "" {
		secret = []byte(key)
	}
}

// AdminClaims represents the JWT claims for back-office authentication
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed admin token, used by operational tooling
func GenerateToken(email, role string, ttl time.Duration) (string, error) {
	claims := &AdminClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
