package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	httperr "github.com/corsa-lab/corsa-api/internal/core/errors"
	"github.com/corsa-lab/corsa-api/internal/core/parse"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is an interface for components that can report their health status.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options configures the HTTP server.
type Options struct {
	Addr           string
	Mode           string // debug | release | test
	AllowedOrigin  string
	RateLimitRPS   float64 // 0 disables the limiter
	RateLimitBurst int
	Health         HealthChecker
	ShutdownGrace  time.Duration
}

type Server struct {
	Engine *gin.Engine
	Addr   string

	health        HealthChecker
	shutdownGrace time.Duration
	nowFn         func() time.Time
}

func New(opts Options) *Server {
	switch opts.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = 5 * time.Second
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(), cors(opts.AllowedOrigin))
	if opts.RateLimitRPS > 0 {
		r.Use(rateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	s := &Server{
		Engine:        r,
		Addr:          opts.Addr,
		health:        opts.Health,
		shutdownGrace: opts.ShutdownGrace,
		nowFn:         time.Now,
	}

	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpRouteNotFoundError,
			Message:   "Route not found",
		})
	})

	return s
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	*httperr.ErrorResponse
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	timestamp := parse.FormatISO(s.nowFn())

	if s.health != nil {
		if err := s.health.Ping(ctx); err != nil {
			slog.Error("[Server] Health check failed: data source unreachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, healthResponse{
				Status:    "unhealthy",
				Timestamp: timestamp,
				ErrorResponse: &httperr.ErrorResponse{
					ErrorType: httperr.HttpDataSourceDownError,
					Message:   "Data source unreachable",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, healthResponse{Status: "ok", Timestamp: timestamp})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("[Server] Starting HTTP server", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("[Server] Stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Server] HTTP server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
