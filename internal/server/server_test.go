package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func TestRequestLoggerRecordsEveryRequest(t *testing.T) {
	cfg := requestLoggerConfig()
	if !cfg.LogMethod || !cfg.LogURI || !cfg.LogStatus || !cfg.LogLatency {
		t.Fatal("expected method, uri, status and latency to be logged")
	}
	if cfg.LogValuesFunc == nil {
		t.Fatal("expected a log values func")
	}

	e := echo.New()
	e.Use(middleware.RequestLoggerWithConfig(cfg))
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 through the logger middleware, got %d", rec.Code)
	}
}
