// Package common defines shared constants and sentinel errors used across
// the server, the admin CLI and their repositories. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorNoFiles      = errors.New("no files received")

	// Session cookie errors.
	ErrInvalidToken = errors.New("invalid token")

	// Configuration errors.
	ErrMissingAPIKey = errors.New("OLLAMA_API_KEY is not set")
)
