package api

import (
	"time"

	models "FedPulse/internal/domain/models"
	"FedPulse/internal/service/metrics"
	"FedPulse/internal/usecase"
	xhttp "FedPulse/pkg/http"
	xlogger "FedPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetSeries returns raw observations for one series.
func (h *Handler) GetSeries(c echo.Context) error {
	start := time.Now()
	endpoint := "series"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Start != "" && req.End != "" && req.Start > req.End {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("start date is after end date"))
	}
	if !h.rl.Allow(c.RealIP()+":series", 10, 5) {
		h.logger.Warn("series rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	obs, err := h.series.Get(c.Request().Context(), req.SeriesID, req.Start, req.End)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("series usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("series fetch failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"series_id":    req.SeriesID,
		"count":        len(obs),
		"observations": obs,
	})
}

// MergeSeries aligns multiple series onto one shared date axis.
func (h *Handler) MergeSeries(c echo.Context) error {
	start := time.Now()
	endpoint := "merge"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.MergeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Start != "" && req.End != "" && req.Start > req.End {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("start date is after end date"))
	}
	if !h.rl.Allow(c.RealIP()+":merge", 5, 2) {
		h.logger.Warn("merge rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	members := make([]usecase.MergeMember, len(req.Series))
	for i, m := range req.Series {
		members[i] = usecase.MergeMember{Key: m.Key, SeriesID: m.SeriesID}
	}
	res, err := h.series.Merge(c.Request().Context(), usecase.MergeParams{
		Series:     members,
		FillMethod: models.FillMethod(req.FillMethod),
		InnerJoin:  req.InnerJoin,
		Start:      req.Start,
		End:        req.End,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("merge usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("merge failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}
