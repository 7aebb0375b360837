package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/series/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for _, id := range []string{"DFF", "DGS10"} {
		req := httptest.NewRequest(http.MethodGet, "/series/"+id, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", rec.Code)
		}
	}

	// both requests land on the one route template label
	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/series/:id", http.MethodGet, "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests counted for route template, got %v", got)
	}
}

func TestMetricsSkipsScrapeEndpoint(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/metrics", func(c echo.Context) error {
		return c.String(http.StatusOK, "scrape")
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/metrics", http.MethodGet, "200"))
	if got != 0 {
		t.Fatalf("metrics scrapes must not be counted, got %v", got)
	}
}
