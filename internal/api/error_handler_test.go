package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gigindia/marketplace/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "missing session"), http.StatusUnauthorized, "missing session"},
		{"expired session", domain.ErrSessionExpired, http.StatusUnauthorized, "unauthenticated"},
		{"user exists", fmt.Errorf("create: %w", domain.ErrUserExists), http.StatusConflict, "user already exists"},
		{"profile missing", domain.ErrProfileNotFound, http.StatusNotFound, "profile not found"},
		{"validation", fmt.Errorf("%w: bad input", domain.ErrValidation), http.StatusUnprocessableEntity, "validation failed: bad input"},
		{"profile exists", domain.ErrProfileExists, http.StatusConflict, "profile already exists"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"data store", &domain.DataStoreError{Message: "connection refused"}, http.StatusInternalServerError, "data store unavailable"},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.msg {
				t.Fatalf("expected %q, got %q", tt.msg, body.Error)
			}
		})
	}
}
