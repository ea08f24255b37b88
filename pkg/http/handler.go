package http

import "github.com/labstack/echo/v4"

// Handler is anything that can attach its routes to an echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
