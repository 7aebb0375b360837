package api

import (
	"net/http"

	xlogger "FedPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard clients connect from arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AlertsWS upgrades the connection and streams fired triggers to the client.
func (h *Handler) AlertsWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", xlogger.Error(err))
		return err
	}
	h.hub.Register(conn)
	return nil
}
