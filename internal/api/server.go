// Package api assembles the FirePortal HTTP server: the gin engine, its
// middleware, the JSON API, the gateway routes and the embedded dashboard.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/api/handlers"
	"github.com/jroosing/fireportal/internal/api/middleware"
	"github.com/jroosing/fireportal/internal/api/models"
	"github.com/jroosing/fireportal/internal/config"
	"github.com/jroosing/fireportal/internal/router"
)

// Deps are the runtime components the server dispatches to.
type Deps struct {
	Resolver handlers.Resolver
	Fetcher  handlers.Fetcher

	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

// Server is the FirePortal HTTP server.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

func New(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}
	if deps.Resolver == nil || deps.Fetcher == nil {
		panic("api.New: resolver and fetcher are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	// Direct-host paths belong to the site; a trailing-slash redirect would
	// fire before HostDispatch sees them.
	engine.RedirectTrailingSlash = false
	engine.Use(middleware.SlogRequestLogger(logger))
	engine.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		logger.Error("panic recovered", "path", c.Request.URL.Path, "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Server error processing request"})
	}))
	engine.Use(middleware.Metrics())
	if deps.RateLimiter != nil {
		engine.Use(deps.RateLimiter.Middleware())
	}

	h := handlers.New(cfg, deps.Resolver, deps.Fetcher, logger)
	classifier := router.NewClassifier(cfg.Server.DashboardHosts)
	engine.Use(HostDispatch(classifier, h, logger))

	RegisterRoutes(engine, h, cfg)
	MountSPA(engine, h, logger)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Gateway fetches may take up to the gateway timeout, plus the resolver.
		WriteTimeout: cfg.Gateway.Timeout + cfg.Resolver.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	return s.httpServer.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
