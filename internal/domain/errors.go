package domain

import "errors"

// Error taxonomy. The HTTP adapter maps each of these to a status code and
// string code via errors.Is; nothing outside internal/adapter/httpserver
// should know about status codes.
var (
	ErrValidation            = errors.New("validation failed")
	ErrAuthMissing           = errors.New("authentication required")
	ErrAuthInvalid           = errors.New("authentication invalid")
	ErrSessionInvalid        = errors.New("session invalid")
	ErrSessionNotInProgress  = errors.New("session not in progress")
	ErrSessionExpired        = errors.New("session time expired")
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrLLMUnavailable        = errors.New("llm unavailable")
	ErrLLMBadJSON            = errors.New("llm returned unparseable json")
	ErrLLMRateLimited        = errors.New("llm rate limited")
	ErrSandboxUnavailable    = errors.New("sandbox unavailable")
	ErrSandboxTimeout        = errors.New("sandbox timeout")
	ErrInfrastructure        = errors.New("infrastructure error")
	ErrRateLimited           = errors.New("rate limited")
)
