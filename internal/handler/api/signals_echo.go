package api

import (
	"encoding/json"
	"net/http"
	"time"

	models "FedPulse/internal/domain/models"
	"FedPulse/internal/service/metrics"
	xhttp "FedPulse/pkg/http"
	xlogger "FedPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const signalsCacheTTL = 60 * time.Second

func rateLimitedError() error {
	return xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", http.StatusTooManyRequests)
}

// AllSignals computes and returns every signal including the composite.
func (h *Handler) AllSignals(c echo.Context) error {
	start := time.Now()
	endpoint := "signals"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":signals", 5, 2) {
		h.logger.Warn("signals rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	const cacheKey = "signals:all"
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err == nil && ok {
			h.logger.Debug("signals cache_hit", xlogger.String("key", cacheKey))
			var cached map[string]models.SignalResult
			if err := json.Unmarshal(b, &cached); err == nil {
				return xhttp.SuccessResponse(c, cached)
			}
		}
	}

	res, err := h.signals.ComputeAll(c.Request().Context())
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("signal computation failed").WithError(err))
	}

	out := make(map[string]models.SignalResult, len(res))
	for t, s := range res {
		out[string(t)] = s
	}
	if h.cache != nil {
		if b, err := json.Marshal(out); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, signalsCacheTTL); err != nil {
				h.logger.Warn("signals cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, out)
}

// OneSignal computes a single signal by type.
func (h *Handler) OneSignal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signal", 5, 2) {
		h.logger.Warn("signal rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	res, err := h.signals.Compute(c.Request().Context(), models.SignalType(req.Type))
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("signal usecase error", xlogger.String("type", req.Type), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("signal computation failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}
