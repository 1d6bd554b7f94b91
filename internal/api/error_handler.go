package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gigindia/marketplace/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// domainStatus maps sentinels to the status and client message they render as.
// Order matters: the first match wins.
var domainStatus = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrProfileNotFound, http.StatusNotFound, "profile not found"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrProfileExists, http.StatusConflict, "profile already exists"},
}

// NewHTTPErrorHandler renders every error as {"error": "..."}. Domain errors
// get a fixed status; anything unknown is logged and reported as a 500
// without its cause.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("route", c.Path()).
				Int("status", code).
				Msg("request failed")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}
	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, m.msg
		}
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrDataStore):
		return http.StatusInternalServerError, "data store unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}
