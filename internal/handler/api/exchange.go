package api

import (
	"errors"
	"net/http"
	"time"

	"baratcx/internal/domain/models"
	xhttp "baratcx/pkg/http"
	xlogger "baratcx/pkg/logger"
	"baratcx/pkg/util"

	"github.com/labstack/echo/v4"
)

// Read-only exchange endpoints the signing proxy will forward. Anything else
// is rejected before a signature is ever computed.
var proxyAllowlist = map[string]bool{
	"/account":      true,
	"/openOrders":   true,
	"/allOrders":    true,
	"/myTrades":     true,
	"/ticker/price": true,
	"/ticker/24hr":  true,
	"/exchangeInfo": true,
}

// Per-session proxy budget: a burst of ten requests refilling at two per
// second.
const (
	proxyBurst  = 10.0
	proxyRefill = 2.0
)

// credentialsView is the API shape of stored credentials; key material is
// masked.
type credentialsView struct {
	APIKey              string    `json:"apiKey"`
	SecretKey           string    `json:"secretKey"`
	UseTestnet          bool      `json:"useTestnet"`
	IsVerifiedConnected bool      `json:"isVerifiedConnected"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// Credentials returns the stored exchange configuration with masked keys.
func (h *Handler) Credentials(c echo.Context) error {
	creds, err := h.store.Credentials(c.Request().Context())
	if err != nil {
		if errors.Is(err, models.ErrNotConfigured) {
			return xhttp.SuccessResponse(c, &credentialsView{UseTestnet: true})
		}
		h.log.Error("credentials load failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, &credentialsView{
		APIKey:              util.MaskSecret(creds.APIKey),
		SecretKey:           util.MaskSecret(creds.SecretKey),
		UseTestnet:          creds.UseTestnet,
		IsVerifiedConnected: creds.IsVerifiedConnected,
		LastUpdated:         creds.LastUpdated,
	})
}

// SaveCredentials stores new exchange credentials and kicks an immediate
// order refresh so the dashboard flips to live data without waiting out the
// interval.
func (h *Handler) SaveCredentials(c echo.Context) error {
	req := &models.CredentialsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	creds := &models.ExchangeCredentials{
		APIKey:     req.APIKey,
		SecretKey:  req.SecretKey,
		UseTestnet: req.UseTestnet == nil || *req.UseTestnet,
	}
	if err := h.store.SaveCredentials(c.Request().Context(), creds); err != nil {
		h.log.Error("credentials save failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	if err := h.registry.Refetch(models.KindOrders); err != nil {
		h.log.Warn("order refresh after credential change failed", xlogger.Error(err))
	}
	return xhttp.NoContentResponse(c)
}

// TestConnection verifies the stored credentials against the exchange and
// records the outcome.
func (h *Handler) TestConnection(c echo.Context) error {
	ctx := c.Request().Context()
	creds, err := h.store.Credentials(ctx)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	verifyErr := h.exchange.Verify(ctx, creds)
	creds.IsVerifiedConnected = verifyErr == nil
	if err := h.store.SaveCredentials(ctx, creds); err != nil {
		h.log.Warn("could not record verification result", xlogger.Error(err))
	}

	if verifyErr != nil {
		h.log.Warn("exchange verification failed", xlogger.Error(verifyErr))
		return xhttp.AppErrorResponse(c, toAppError(verifyErr))
	}
	return xhttp.SuccessResponse(c, map[string]bool{"connected": true})
}

// Proxy signs and forwards a read-only exchange call on behalf of the
// dashboard. The endpoint must be allowlisted and each session has a request
// budget.
func (h *Handler) Proxy(c echo.Context) error {
	req := &models.ProxyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !proxyAllowlist[req.Endpoint] {
		h.metrics.RecordProxyRequest(http.StatusForbidden)
		return xhttp.AppErrorResponse(c, xhttp.ForbiddenError("endpoint not allowed"))
	}
	if !h.limiter.Allow(session(c).Token, proxyBurst, proxyRefill) {
		h.metrics.RecordProxyRequest(http.StatusTooManyRequests)
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("proxy budget exhausted"))
	}

	ctx := c.Request().Context()
	creds, err := h.store.Credentials(ctx)
	if err != nil {
		h.metrics.RecordProxyRequest(http.StatusBadRequest)
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	body, status, err := h.exchange.Raw(ctx, creds, req.Endpoint, req.Params)
	if err != nil {
		h.metrics.RecordProxyRequest(status)
		h.log.Warn("proxy request failed",
			xlogger.String("endpoint", req.Endpoint),
			xlogger.Int("status", status),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	h.metrics.RecordProxyRequest(status)
	return c.JSONBlob(status, body)
}
