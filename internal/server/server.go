// Package server exposes an eq.Engine over HTTP: parameter updates,
// applied-state inspection, magnitude curves and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/config"
	"github.com/cwbudde/algo-eq/internal/curvecache"
	"github.com/cwbudde/algo-eq/internal/logging"
	"github.com/cwbudde/algo-eq/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP control surface. Handlers run in the control context.
type Server struct {
	Echo *echo.Echo

	engine   *eq.Engine
	settings config.Settings
	curves   *curvecache.Cache
	registry *prometheus.Registry
	metrics  *metrics.EngineMetrics
	limiter  *rate.Limiter
	level    levelMeter
	log      *slog.Logger
}

// New builds the server around a prepared engine.
func New(settings config.Settings, engine *eq.Engine) (*Server, error) {
	s := &Server{
		Echo:     echo.New(),
		engine:   engine,
		settings: settings,
		curves:   curvecache.New(settings.Curve.CacheTTL),
		registry: prometheus.NewRegistry(),
		log:      logging.ForService("server"),
	}

	m, err := metrics.NewEngineMetrics(s.registry, engine, s.curves)
	if err != nil {
		return nil, err
	}
	s.metrics = m

	burst := max(1, int(settings.Server.UpdateRate))
	s.limiter = rate.NewLimiter(rate.Limit(settings.Server.UpdateRate), burst)

	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.configureMiddleware()
	s.initRoutes()

	return s, nil
}

func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(s.requestLogger())
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			s.log.Debug("request",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"duration", time.Since(start))
			return nil
		}
	}
}

// updateLimiter rejects parameter writes beyond the configured rate.
func (s *Server) updateLimiter() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.limiter.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "parameter updates are rate limited")
			}
			return next(c)
		}
	}
}

func (s *Server) initRoutes() {
	s.Echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := s.Echo.Group("/api")
	api.GET("/params", s.GetParams)
	api.PUT("/params", s.PutParams, s.updateLimiter())
	api.GET("/curve", s.GetCurve)
	api.GET("/stats", s.GetStats)

	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

// Start serves on the configured address until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.settings.Server.Listen)
		errCh <- s.Echo.Start(s.settings.Server.Listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("stopped")
	return nil
}
