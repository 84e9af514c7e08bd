package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "userapi/internal/errors"
)

// Claims carries the find-hash claim inside a signed bearer token. The
// claim is deliberately opaque to the client: revocation happens by
// rotating the server-side find hash, not by expiring the token.
type Claims struct {
	Token string `json:"token"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens with a process-wide
// HMAC secret, injected at construction.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
	}
}

// Sign produces a signed token embedding the given find hash.
func (s *TokenService) Sign(findHash string) (string, error) {
	claims := &Claims{
		Token: findHash,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token's signature and returns the embedded find hash.
// Any malformed, unsigned, or foreign-signed token yields ErrInvalidToken.
func (s *TokenService) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Token == "" {
		return "", apperrors.ErrInvalidToken
	}

	return claims.Token, nil
}
