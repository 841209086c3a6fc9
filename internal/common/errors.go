// Package common defines shared constants and sentinel errors used across
// client and server layers of sealbox. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// ErrorUpstream marks a failed call to an external collaborator
	// such as the object store.
	ErrorUpstream = errors.New("upstream failure")

	// ErrorRecipientNotFound is returned by the sharing workflow when the
	// recipient email does not resolve to a principal.
	ErrorRecipientNotFound = fmt.Errorf("recipient %w", ErrorNotFound)

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
