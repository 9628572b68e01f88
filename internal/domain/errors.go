package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork      = errors.New("request could not complete")
	ErrNotFound     = errors.New("not found")
	ErrAuthRequired = errors.New("authentication required")
	ErrValidation   = errors.New("invalid input")
)

// APIError is a non-success response from the KnowBargain API. Message is
// the server's `{error}` field when present, or a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (HTTP %d)", e.Status)
}

// Unwrap maps well-known status codes onto the sentinel errors so callers
// can branch with errors.Is without inspecting status codes themselves.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthRequired
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	default:
		return nil
	}
}

// UserMessage returns the text shown to the user for err: the server's own
// message for API errors, a short actionable hint for the sentinels, and the
// plain error text otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrAuthRequired):
		return "log in first"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrNetwork):
		return "network error, try again"
	default:
		return err.Error()
	}
}
