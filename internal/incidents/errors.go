package incidents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/clearcase/internal/categories"
)

// Domain errors for incident operations.
var (
	ErrNotFound     = errors.New("incident not found")
	ErrDuplicate    = errors.New("incident already exists")
	ErrNotesTooLong = errors.New("notes exceed 10000 characters")
	ErrTitleTooLong = errors.New("title exceeds 80 characters")
	ErrEmptyNotes   = errors.New("notes must not be empty")
	ErrInvalidID    = errors.New("invalid incident id")
	ErrInvalidBody  = errors.New("invalid request body")
)

// MapHTTPStatus maps incident domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNotesTooLong), errors.Is(err, ErrTitleTooLong):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrEmptyNotes),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, categories.ErrInvalidCategory),
		errors.Is(err, categories.ErrEmptyKey):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
