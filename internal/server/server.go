// Package server hosts the relay's inbound HTTP surface.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"application-relay/internal/common/config"
	"application-relay/internal/common/logger"
	"application-relay/internal/common/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes is implemented by each relay handler.
type Routes interface {
	Register(r gin.IRoutes)
}

type Options struct {
	Config        *config.Config
	Logger        logger.Logger
	Observability *observability.Observability
	// RateLimiter is optional; nil disables inbound limiting.
	RateLimiter *RateLimiter
	Handlers    []Routes
}

type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	logger      logger.Logger
	cfg         *config.Config
	rateLimiter *RateLimiter
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	engine := gin.New()
	engine.Use(
		RequestID(),
		RequestLogger(log),
		Recovery(log),
		CORS(opts.Config.Server.CORSAllowedOrigins),
		Instrument(opts.Observability),
	)

	s := &Server{
		engine:      engine,
		logger:      log,
		cfg:         opts.Config,
		rateLimiter: opts.RateLimiter,
	}

	engine.GET("/health", s.health)
	engine.GET("/ready", s.ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	relay := engine.Group("/", BodyLimit(opts.Config.Server.MaxBodyBytes))
	if opts.RateLimiter != nil {
		relay.Use(opts.RateLimiter.Middleware())
	}
	for _, h := range opts.Handlers {
		h.Register(relay)
	}

	s.httpServer = &http.Server{
		Addr:         opts.Config.Server.Address,
		Handler:      engine,
		ReadTimeout:  config.GetDuration(opts.Config.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(opts.Config.Server.WriteTimeout),
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Relay listening", map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ready reports the rate limiter store without failing on it since the
// limiter fails open. Missing credentials never get this far: config.Load
// refuses to start without them.
func (s *Server) ready(c *gin.Context) {
	checks := gin.H{"greenhouse": "configured"}

	if s.rateLimiter != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := s.rateLimiter.Healthy(ctx); err != nil {
			checks["rateLimitStore"] = "unavailable"
		} else {
			checks["rateLimitStore"] = "ok"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
