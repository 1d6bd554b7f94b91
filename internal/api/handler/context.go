package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigindia/marketplace/internal/api/middleware"
	"github.com/gigindia/marketplace/internal/core/domain"
)

// ctxSession returns the verified session the gate stored on the context.
// Its absence means the route was reached without the gate or through the
// development bypass; either way there is no identity to act for.
func ctxSession(c echo.Context) (*domain.VerifiedSession, error) {
	session, _ := c.Get(middleware.SessionKey).(*domain.VerifiedSession)
	if session == nil || session.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return session, nil
}
