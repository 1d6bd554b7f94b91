package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get returns the profile row of the signed-in user.
//
// @Summary      Get own profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  domain.ProfileRecord
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	userType := domain.UserType(session.Role)
	if !userType.Valid() {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no profile for role " + session.Role})
	}

	profile, err := h.service.Get(c.Request().Context(), userType, session.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "profile not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Provision runs profile provisioning for any user. Admin only.
//
// @Summary      Provision a profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        body  body      provisionRequest  true  "Profile to provision"
// @Success      200   {object}  provisionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  provisionResponse
// @Failure      500   {object}  provisionResponse
// @Router       /api/admin/profiles [post]
func (h *ProfileHandler) Provision(c echo.Context) error {
	var req provisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res := h.service.Provision(c.Request().Context(), req.UserID, req.Profile, domain.UserType(req.UserType))
	body := provisionResponse{Success: res.Success, Data: res.Data, Error: res.Error}

	switch {
	case res.Success:
		return c.JSON(http.StatusOK, body)
	case errors.Is(res.Err, domain.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, body)
	default:
		return c.JSON(http.StatusInternalServerError, body)
	}
}
