// Package common defines shared constants and sentinel errors used across
// the wallet server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Domain rule errors.
	ErrInvalidAmount = errors.New("invalid amount")

	// Object storage is not configured.
	ErrStorageDisabled = errors.New("object storage disabled")

	// Auth errors (invalid, tampered or expired token).
	ErrInvalidToken = errors.New("invalid token")
)
