package categories

import (
	"errors"
	"net/http"
)

var (
	ErrEmptyKey        = errors.New("incident key must not be empty")
	ErrInvalidCategory = errors.New("invalid category")
	ErrCorruptMapping  = errors.New("corrupt category mapping")
)

// MapHTTPStatus maps category errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidCategory) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
