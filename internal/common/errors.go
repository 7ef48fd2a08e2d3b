// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential check errors.
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token verification errors. All three mean "unauthenticated" to the
	// caller; the distinction is kept for logging.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrWrongScope   = errors.New("wrong token scope")

	// Refresh flow errors.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Email confirmation errors.
	ErrVerification = errors.New("verification error")

	// Cache errors.
	ErrCacheMiss = errors.New("cache miss")
)
