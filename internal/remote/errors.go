package remote

import (
	"errors"
	"net/http"
)

var (
	ErrNotConfigured  = errors.New("remote functions not configured")
	ErrOrganizeFailed = errors.New("organize-incidents failed")
	ErrGrammarFailed  = errors.New("improve-grammar failed")
)

// MapHTTPStatus maps remote errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotConfigured) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrOrganizeFailed) || errors.Is(err, ErrGrammarFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
