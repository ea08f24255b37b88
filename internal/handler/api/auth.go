package api

import (
	"errors"

	"baratcx/internal/domain/models"
	xhttp "baratcx/pkg/http"
	xlogger "baratcx/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Login validates credentials and issues a bearer session.
func (h *Handler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("invalid email or password"))
		}
		h.log.Error("login failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, sess)
}

// Logout invalidates the current session token.
func (h *Handler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), session(c).Token); err != nil {
		h.log.Error("logout failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.NoContentResponse(c)
}
