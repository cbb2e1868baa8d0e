// Package common defines sentinel errors shared by the local store, the remote
// store and the client services. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Precondition / validation errors surfaced to the user as alerts.
	ErrValidation = errors.New("validation error")
	ErrNoUser     = errors.New("no authenticated user")

	// Auth errors.
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrNoSavedSession      = errors.New("no saved session")
	ErrBiometricDenied     = errors.New("biometric authentication denied")
)
