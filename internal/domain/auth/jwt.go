package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
)

// Claims is the JWT payload for API tokens.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenIssuer signs and verifies API tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenIssuer creates a token issuer with an HMAC secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "leafbook",
	}
}

// Issue creates a signed token for a user.
func (t *TokenIssuer) Issue(u *User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: u.Email,
		Name:  u.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token, returning its claims.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.NewUnauthorized("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}

	if _, err := id.Parse(claims.Subject); err != nil {
		return nil, apperror.NewUnauthorized("invalid token subject")
	}

	return claims, nil
}
