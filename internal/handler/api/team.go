package api

import (
	"baratcx/internal/domain/models"
	xhttp "baratcx/pkg/http"
	xlogger "baratcx/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Team lists the employee roster with password material stripped.
func (h *Handler) Team(c echo.Context) error {
	employees, err := h.auth.Employees(c.Request().Context())
	if err != nil {
		h.log.Error("roster load failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	rows := make([]models.User, 0, len(employees))
	for _, emp := range employees {
		rows = append(rows, emp.Sanitized())
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// AddEmployee creates a roster entry with the shared temporary password.
func (h *Handler) AddEmployee(c echo.Context) error {
	req := &models.AddEmployeeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	emp, err := h.auth.AddEmployee(c.Request().Context(), req)
	if err != nil {
		h.log.Warn("add employee rejected",
			xlogger.String("email", req.Email),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ConflictError(err.Error()))
	}
	return xhttp.CreatedResponse(c, emp.Sanitized())
}

// RemoveEmployee drops an employee from the roster.
func (h *Handler) RemoveEmployee(c echo.Context) error {
	id := c.Param("id")
	if err := h.auth.RemoveEmployee(c.Request().Context(), id); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	}
	return xhttp.NoContentResponse(c)
}
