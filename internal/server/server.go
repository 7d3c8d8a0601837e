// Package server exposes the grading engine over an HTTP API: preset
// browsing, shader and filter chain generation, LUT exchange, and
// asynchronous export jobs.
package server

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tonecraft.systems/grade/internal/exporter"
)

type Webserver struct {
	*echo.Echo

	// baseCtx bounds export jobs to process lifetime rather than to the
	// HTTP request that started them.
	baseCtx  context.Context
	exporter *exporter.Exporter
	validate *validator.Validate
}

func NewWebserver(ctx context.Context, exp *exporter.Exporter) (*Webserver, error) {
	e := echo.New()

	webserver := &Webserver{
		Echo:     e,
		baseCtx:  ctx,
		exporter: exp,
		validate: validator.New(),
	}

	webserver.registerRoutes()

	if err := webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	return webserver, nil
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("8M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))
	return nil
}

func (s *Webserver) registerRoutes() {
	api := s.Group("/api")

	api.GET("/controls", s.HandleListControls())
	api.GET("/presets", s.HandleListPresets())
	api.POST("/presets/blend", s.HandleBlendPreset())

	api.POST("/shader", s.HandleShader())
	api.POST("/filterchain", s.HandleFilterChain())

	api.POST("/lut/export", s.HandleLUTExport())
	api.POST("/lut/import", s.HandleLUTImport())

	api.POST("/exports", s.HandleCreateExport())
	api.GET("/exports/:id", s.HandleExportStatus())
}
