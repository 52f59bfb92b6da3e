package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks a bearer credential and derives the caller's identity.
// Verification is stateless; every request is checked independently.
type Verifier interface {
	Verify(tokenString string) (*Principal, error)
}

type claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

func (v *JWTVerifier) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if c.Subject == "" {
		return nil, errors.New("missing subject claim")
	}
	if c.ExpiresAt == nil {
		return nil, errors.New("missing expiration claim")
	}
	if v.issuer != "" && c.Issuer != v.issuer {
		return nil, fmt.Errorf("invalid issuer: got %s, want %s", c.Issuer, v.issuer)
	}

	return &Principal{
		Subject: c.Subject,
		Roles:   c.Roles,
	}, nil
}
