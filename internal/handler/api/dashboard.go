package api

import (
	"baratcx/internal/domain/models"
	xhttp "baratcx/pkg/http"
	"baratcx/pkg/util"

	"github.com/labstack/echo/v4"
)

// DashboardStats serves the cached headline card data.
func (h *Handler) DashboardStats(c echo.Context) error {
	return h.snapshot(c, models.KindStats)
}

// DashboardActivity serves the cached activity feed batch.
func (h *Handler) DashboardActivity(c echo.Context) error {
	return h.snapshot(c, models.KindActivity)
}

// Market serves the cached global market snapshot and asset list. An
// optional limit query parameter trims the asset list.
func (h *Handler) Market(c echo.Context) error {
	res, err := h.registry.Snapshot(models.KindMarket)
	if res == nil {
		if err != nil {
			return xhttp.AppErrorResponse(c, toAppError(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("stream warming up"))
	}

	limit := util.ParseIntDefault(c.QueryParam("limit"), 0)
	if limit > 0 && limit < len(res.Assets) {
		trimmed := *res
		trimmed.Assets = res.Assets[:limit]
		return xhttp.SuccessResponse(c, &trimmed)
	}
	return xhttp.SuccessResponse(c, res)
}

// Refresh triggers an immediate out-of-band poll cycle for one stream. The
// response returns the still-cached value; clients pick up the fresh result
// on the stream or their next poll.
func (h *Handler) Refresh(c echo.Context) error {
	kind := models.Kind(c.Param("kind"))
	if err := h.registry.Refetch(kind); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unknown stream %q", kind))
	}
	return h.snapshot(c, kind)
}
