package api

import (
	"errors"
	"net/http"

	"baratcx/internal/domain/models"
	drepo "baratcx/internal/domain/repository"
	"baratcx/internal/service/ratelimit"
	"baratcx/internal/usecase"
	xhttp "baratcx/pkg/http"
	xlogger "baratcx/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Handler wires the dashboard API onto Echo. All routes except login require
// a bearer session; team and exchange credential management require the admin
// role.
type Handler struct {
	log      *xlogger.Logger
	auth     *usecase.Auth
	registry *usecase.Registry
	store    drepo.SessionStore
	exchange drepo.ExchangeAccount
	metrics  drepo.Metrics
	limiter  *ratelimit.Limiter
	hub      *Hub
}

// NewHandler creates the API handler.
func NewHandler(
	log *xlogger.Logger,
	auth *usecase.Auth,
	registry *usecase.Registry,
	store drepo.SessionStore,
	exchange drepo.ExchangeAccount,
	metrics drepo.Metrics,
	hub *Hub,
) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		registry: registry,
		store:    store,
		exchange: exchange,
		metrics:  metrics,
		limiter:  ratelimit.New(),
		hub:      hub,
	}
}

// RegisterRoutes mounts all API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/auth/login", h.Login)

	authed := g.Group("", h.RequireSession)
	authed.POST("/auth/logout", h.Logout)

	authed.GET("/dashboard/stats", h.DashboardStats)
	authed.GET("/dashboard/activity", h.DashboardActivity)
	authed.GET("/market", h.Market)
	authed.GET("/orders", h.Orders)
	authed.POST("/refresh/:kind", h.Refresh)

	authed.GET("/profile", h.Profile)
	authed.PUT("/profile", h.UpdateProfile)

	authed.GET("/stream", h.Stream)
	authed.POST("/exchange/proxy", h.Proxy)

	admin := authed.Group("", h.RequireAdmin)
	admin.GET("/team", h.Team)
	admin.PUT("/team", h.AddEmployee)
	admin.DELETE("/team/:id", h.RemoveEmployee)
	admin.GET("/exchange/credentials", h.Credentials)
	admin.PUT("/exchange/credentials", h.SaveCredentials)
	admin.POST("/exchange/test", h.TestConnection)
}

// toAppError maps fetch pipeline errors onto HTTP statuses.
func toAppError(err error) *xhttp.AppError {
	code := models.ErrorCode(err)
	switch code {
	case "ERR_NOT_CONFIGURED":
		return xhttp.NewAppError(code, "", "exchange credentials not configured", http.StatusBadRequest)
	case "ERR_UNAUTHENTICATED":
		return xhttp.NewAppError(code, "", "exchange credentials rejected", http.StatusUnauthorized)
	case "ERR_UPSTREAM":
		var ue *models.UpstreamError
		appErr := xhttp.NewAppError(code, "", "upstream request failed", http.StatusBadGateway)
		if errors.As(err, &ue) {
			appErr.WithParam("upstreamStatus", ue.Status)
		}
		return appErr
	case "ERR_NETWORK":
		return xhttp.NewAppError(code, "", "upstream unreachable", http.StatusServiceUnavailable)
	case "ERR_PARSE":
		return xhttp.NewAppError(code, "", "upstream returned an unreadable payload", http.StatusBadGateway)
	default:
		return xhttp.InternalError("internal error")
	}
}

// snapshot serves the cached result for a stream, honoring
// stale-while-revalidate: cached data wins over the latest cycle error.
func (h *Handler) snapshot(c echo.Context, kind models.Kind) error {
	res, err := h.registry.Snapshot(kind)
	if res != nil {
		return xhttp.SuccessResponse(c, res)
	}
	if err != nil {
		h.log.Error("snapshot unavailable",
			xlogger.String("kind", string(kind)),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("stream warming up"))
}
