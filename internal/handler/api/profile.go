package api

import (
	"baratcx/internal/domain/models"
	xhttp "baratcx/pkg/http"
	xlogger "baratcx/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Profile returns the current user's profile.
func (h *Handler) Profile(c echo.Context) error {
	user, err := h.auth.Profile(c.Request().Context(), session(c))
	if err != nil {
		h.log.Error("profile load failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("profile not found"))
	}
	return xhttp.SuccessResponse(c, user.Sanitized())
}

// UpdateProfile renames the current user and optionally sets a new password,
// clearing the temporary flag.
func (h *Handler) UpdateProfile(c echo.Context) error {
	req := &models.UpdateProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), session(c), req)
	if err != nil {
		h.log.Error("profile update failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, user.Sanitized())
}
