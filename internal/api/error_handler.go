package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// domainStatus is checked in order; the first match wins.
var domainStatus = []struct {
	err  error
	code int
}{
	{domain.ErrHireNotFound, http.StatusNotFound},
	{domain.ErrProfessionalNotFound, http.StatusNotFound},
	{domain.ErrConversationNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{domain.ErrNotEligible, http.StatusUnprocessableEntity},
	{domain.ErrProfessionalNotEligible, http.StatusUnprocessableEntity},
	{domain.ErrUnauthorized, http.StatusForbidden},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrInvalidReviewToken, http.StatusForbidden},
	{domain.ErrConcurrencyConflict, http.StatusConflict},
	{domain.ErrDuplicateReview, http.StatusConflict},
	{domain.ErrNoProfessionalsAvailable, http.StatusConflict},
	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrInvalidFilter, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, err.Error()
		}
	}

	// Unexpected error (ErrCorruptHire included): log the real cause, return a
	// generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
