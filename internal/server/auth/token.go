// Package auth implements the stateless pieces of the authentication core:
// the signed-token codec and the password hasher. Both are pure; all
// persistence lives in the service layer.
package auth

import (
	"errors"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose tags a token with the single operation class it is valid for.
// An access token must never be accepted where a refresh token is
// required, and vice versa.
type Purpose string

const (
	PurposeAccess  Purpose = "access_token"
	PurposeRefresh Purpose = "refresh_token"
	PurposeEmail   Purpose = "email_token"
)

// Claims carries the registered claims plus the purpose tag. Subject is
// the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// TokenService signs and verifies bearer tokens (HS256) with a
// process-wide secret fixed at startup.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret}
}

// Issue creates a signed token for subject with the given purpose,
// expiring ttl from now. The jti makes every token unique even when two
// are issued within the same second, so rotation can tell them apart.
func (s *TokenService) Issue(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: string(purpose),
	})

	return token.SignedString(s.secret)
}

// Verify checks signature, expiry, and purpose, in that order, and returns
// the subject. Failures map onto common.ErrInvalidToken,
// common.ErrTokenExpired, and common.ErrWrongScope; callers must treat all
// three as unauthenticated but may log them distinctly.
func (s *TokenService) Verify(tokenString string, purpose Purpose) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	// Required fields must be present even if the signature checks out.
	if claims.Subject == "" || claims.ExpiresAt == nil || claims.Scope == "" {
		return "", common.ErrInvalidToken
	}
	if claims.Scope != string(purpose) {
		return "", common.ErrWrongScope
	}

	return claims.Subject, nil
}
