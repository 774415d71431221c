package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/query"
	"storefront-service/internal/store"
)

// errorStatus maps store and query failures onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrInvalidCredentials),
		errors.Is(err, store.ErrInactiveAccount):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicateReview):
		return http.StatusConflict
	case errors.Is(err, query.ErrValidation),
		errors.Is(err, store.ErrEmptyOrder),
		errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrInvalidRating),
		errors.Is(err, store.ErrCategoryCycle),
		errors.Is(err, store.ErrParentNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// jsonError writes the mapped status and message for a domain failure.
// Unexpected errors become a generic 500 with no internal detail.
func jsonError(c echo.Context, err error) error {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	return c.JSON(status, echo.Map{"error": msg})
}
