package api

import (
	"time"

	"baratcx/internal/domain/models"
	xhttp "baratcx/pkg/http"
	"baratcx/pkg/util"

	"github.com/labstack/echo/v4"
)

// Orders serves the cached order book. Admins see everything; employees see
// only orders assigned to them or unassigned ones. An optional since query
// parameter (RFC3339 or unix seconds) keeps only orders updated after it.
func (h *Handler) Orders(c echo.Context) error {
	res, err := h.registry.Snapshot(models.KindOrders)
	if res == nil {
		if err != nil {
			return xhttp.AppErrorResponse(c, toAppError(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("stream warming up"))
	}

	sess := session(c)
	since := util.ParseTimeDefault(c.QueryParam("since"), time.Time{})

	filtered := *res
	filtered.Orders = make([]models.OrderRecord, 0, len(res.Orders))
	for _, o := range res.Orders {
		if sess.Role != models.RoleAdmin && o.AssignedTo != "" && o.AssignedTo != sess.DisplayName {
			continue
		}
		if !since.IsZero() && !o.UpdatedAt.After(since) {
			continue
		}
		filtered.Orders = append(filtered.Orders, o)
	}
	return xhttp.SuccessResponse(c, &filtered)
}
