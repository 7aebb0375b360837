package http

import "github.com/labstack/echo/v4"

// Handler is anything that can register its routes on the Echo
// instance NewServer builds.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
