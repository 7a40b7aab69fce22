// Package server exposes the tool registry over HTTP for hosts that
// cannot speak stdio JSON-RPC.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"webscout/config"
	"webscout/internal/mcp"
	"webscout/internal/telemetry"
)

// Run serves the tool surface at /v1/tools until the listener fails.
func Run(cfg *config.Config, srv *mcp.Server, metrics *telemetry.Metrics) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1 := e.Group("/v1")
	v1.GET("/tools", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"tools": srv.Tools()})
	})
	v1.POST("/tools/:name", func(c echo.Context) error {
		args := map[string]any{}
		if err := c.Bind(&args); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "arguments must be a JSON object")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), srv.CallTimeout)
		defer cancel()
		return c.JSON(http.StatusOK, srv.Call(ctx, c.Param("name"), args))
	})

	log.Printf("listening on %s", cfg.Server.Listen)
	return e.Start(cfg.Server.Listen)
}
