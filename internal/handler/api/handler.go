package api

import (
	"net/http"

	icache "FedPulse/internal/service/cache"
	"FedPulse/internal/service/metrics"
	"FedPulse/internal/service/notify"
	"FedPulse/internal/service/ratelimit"
	"FedPulse/internal/usecase"
	xlogger "FedPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Handler implements Echo-based HTTP handlers for the dashboard API.
type Handler struct {
	logger  *xlogger.Logger
	series  *usecase.SeriesUseCase
	signals *usecase.SignalUseCase
	alerts  *usecase.AlertUseCase
	hub     *notify.Hub
	cache   icache.BytesCache
	rl      *ratelimit.Limiter
}

func New(
	logger *xlogger.Logger,
	series *usecase.SeriesUseCase,
	signals *usecase.SignalUseCase,
	alerts *usecase.AlertUseCase,
	hub *notify.Hub,
) *Handler {
	metrics.Register()
	return &Handler{
		logger:  logger,
		series:  series,
		signals: signals,
		alerts:  alerts,
		hub:     hub,
		rl:      ratelimit.New(),
	}
}

// SetCache injects a byte cache for GET endpoints.
func (h *Handler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/series", h.GetSeries)
	g.POST("/series/merge", h.MergeSeries)
	g.GET("/signals", h.AllSignals)
	g.GET("/signals/:type", h.OneSignal)
	g.POST("/alerts", h.CreateAlert)
	g.GET("/alerts", h.ListAlerts)
	g.GET("/alerts/triggers", h.TriggerHistory)
	g.POST("/alerts/check", h.CheckAlerts)
	g.GET("/alerts/:id", h.GetAlert)
	g.PUT("/alerts/:id", h.UpdateAlert)
	g.DELETE("/alerts/:id", h.DeleteAlert)

	e.GET("/ws/alerts", h.AlertsWS)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
