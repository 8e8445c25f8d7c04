// Package httpserver contains HTTP handlers and middleware for the
// assessment platform's candidate, session, and admin surfaces.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ironquill/assesspoint/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details interface{}) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrValidation):
		code = http.StatusBadRequest
		codeStr = "VALIDATION"
	case errors.Is(err, domain.ErrAuthMissing):
		code = http.StatusUnauthorized
		codeStr = "AUTH_MISSING"
	case errors.Is(err, domain.ErrAuthInvalid):
		code = http.StatusUnauthorized
		codeStr = "AUTH_INVALID"
	case errors.Is(err, domain.ErrSessionExpired):
		code = http.StatusGone
		codeStr = "SESSION_EXPIRED"
	case errors.Is(err, domain.ErrSessionNotInProgress):
		code = http.StatusConflict
		codeStr = "SESSION_NOT_IN_PROGRESS"
	case errors.Is(err, domain.ErrSessionInvalid):
		code = http.StatusUnauthorized
		codeStr = "SESSION_INVALID"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
		codeStr = "FORBIDDEN"
	case errors.Is(err, domain.ErrConflict):
		code = http.StatusConflict
		codeStr = "CONFLICT"
	case errors.Is(err, domain.ErrLLMRateLimited):
		code = http.StatusServiceUnavailable
		codeStr = "LLM_RATE_LIMITED"
	case errors.Is(err, domain.ErrLLMBadJSON):
		code = http.StatusServiceUnavailable
		codeStr = "LLM_BAD_JSON"
	case errors.Is(err, domain.ErrLLMUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "LLM_UNAVAILABLE"
	case errors.Is(err, domain.ErrSandboxTimeout):
		code = http.StatusGatewayTimeout
		codeStr = "SANDBOX_TIMEOUT"
	case errors.Is(err, domain.ErrSandboxUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "SANDBOX_UNAVAILABLE"
	case errors.Is(err, domain.ErrInfrastructure):
		code = http.StatusInternalServerError
		codeStr = "INFRASTRUCTURE"
	case errors.Is(err, domain.ErrRateLimited):
		code = http.StatusTooManyRequests
		codeStr = "RATE_LIMITED"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
