package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsbrief/internal/brief"
)

// SchedulerAPI captures the scheduler surface the ops endpoints need.
type SchedulerAPI interface {
	Latest() (brief.Brief, bool)
	RequestRun()
}

// Server is the ops sidecar of the schedule daemon: health, the latest
// brief, a manual-run trigger, and prometheus metrics.
type Server struct {
	echo   *echo.Echo
	sched  SchedulerAPI
	logger *log.Logger
}

// New assembles the ops server. gatherer backs /metrics and is usually
// the registry the telemetry collectors live in.
func New(sched SchedulerAPI, gatherer prometheus.Gatherer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
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
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	s := &Server{echo: e, sched: sched, logger: logger}
	e.GET("/healthz", s.health)
	e.GET("/api/brief/latest", s.latestBrief)
	e.POST("/api/run", s.triggerRun)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// latestBrief serves the most recent successfully built brief; 404
// until the first cycle completes.
func (s *Server) latestBrief(c echo.Context) error {
	b, ok := s.sched.Latest()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no brief built yet")
	}
	return c.JSON(http.StatusOK, b)
}

// triggerRun asks the scheduler for an immediate cycle. The cycle runs
// on the scheduler goroutine at its next tick, so this only
// acknowledges the request.
func (s *Server) triggerRun(c echo.Context) error {
	s.sched.RequestRun()
	return c.JSON(http.StatusAccepted, map[string]string{"status": "run requested"})
}

// Run serves on addr until ctx is cancelled, then shuts down with a
// short grace period.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
