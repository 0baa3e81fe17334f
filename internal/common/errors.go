// Package common defines shared constants and sentinel errors used across
// the client and node layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Flip submission errors.
	ErrorCannotSubmitFlips = errors.New("identity cannot submit flips")
	ErrorFlipLimitReached  = errors.New("flip limit reached")
	ErrorInvalidFlip       = errors.New("invalid flip")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
