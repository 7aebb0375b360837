package api

import (
	"time"

	models "FedPulse/internal/domain/models"
	"FedPulse/internal/service/metrics"
	xhttp "FedPulse/pkg/http"
	xlogger "FedPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CreateAlert registers a new alert configuration.
func (h *Handler) CreateAlert(c echo.Context) error {
	req := &models.CreateAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	alert, err := h.alerts.Create(c.Request().Context(), req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("alerts").Inc()
		h.logger.Error("alert create error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("alert create failed").WithError(err))
	}
	return xhttp.CreatedResponse(c, alert)
}

// ListAlerts returns all alert configurations.
func (h *Handler) ListAlerts(c echo.Context) error {
	out, err := h.alerts.List(c.Request().Context())
	if err != nil {
		metrics.APIErrors.WithLabelValues("alerts").Inc()
		h.logger.Error("alert list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("alert list failed").WithError(err))
	}
	return xhttp.ListResponse(c, out, int64(len(out)))
}

// GetAlert returns one alert by id.
func (h *Handler) GetAlert(c echo.Context) error {
	alert, err := h.alerts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		metrics.APIErrors.WithLabelValues("alerts").Inc()
		h.logger.Error("alert get error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("alert get failed").WithError(err))
	}
	if alert == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("alert %s not found", c.Param("id")))
	}
	return xhttp.SuccessResponse(c, alert)
}

// UpdateAlert applies user edits to enabled/threshold/cooldown.
func (h *Handler) UpdateAlert(c echo.Context) error {
	req := &models.UpdateAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	alert, err := h.alerts.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("alerts").Inc()
		h.logger.Error("alert update error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("alert update failed").WithError(err))
	}
	if alert == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("alert %s not found", c.Param("id")))
	}
	return xhttp.SuccessResponse(c, alert)
}

// DeleteAlert removes an alert by id.
func (h *Handler) DeleteAlert(c echo.Context) error {
	if err := h.alerts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		metrics.APIErrors.WithLabelValues("alerts").Inc()
		h.logger.Error("alert delete error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("alert delete failed").WithError(err))
	}
	return xhttp.NoContentResponse(c)
}

// CheckAlerts runs one evaluation cycle on demand and returns the fired
// triggers. The scheduled poller uses the same cycle.
func (h *Handler) CheckAlerts(c echo.Context) error {
	start := time.Now()
	endpoint := "alerts_check"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":check", 2, 1) {
		h.logger.Warn("alerts check rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	triggers, err := h.alerts.EvaluateCycle(c.Request().Context())
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("alert check error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("alert check failed").WithError(err))
	}
	if triggers == nil {
		triggers = []models.AlertTrigger{}
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"fired":    len(triggers),
		"triggers": triggers,
	})
}

// TriggerHistory returns the most recent trigger events.
func (h *Handler) TriggerHistory(c echo.Context) error {
	req := &models.TriggerHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := h.alerts.TriggerHistory(c.Request().Context(), req.Limit)
	if err != nil {
		metrics.APIErrors.WithLabelValues("triggers").Inc()
		h.logger.Error("trigger history error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("trigger history failed").WithError(err))
	}
	return xhttp.ListResponse(c, out, int64(len(out)))
}
