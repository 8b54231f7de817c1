// Package handlers implements the HTTP handlers of FirePortal.
//
// Endpoints:
//
//   - GET /api/status - liveness and version
//   - GET /api/stats - runtime and cache statistics
//   - GET /api/config - effective configuration (secrets redacted)
//   - GET /api/refresh/:domain - drop the cached resolution of a domain
//   - GET /api/refresh-ipns/:name - drop everything cached for an IPNS name
//   - GET /hns/:domain[/*path] - gateway pipeline
//
// The dashboard form /:domain[/*path] and direct-host requests reach the
// same pipeline through ServePortal.
//
// @title FirePortal API
// @version 1.0
// @description Handshake to IPFS gateway.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @BasePath /
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jroosing/fireportal/internal/cache"
	"github.com/jroosing/fireportal/internal/config"
	"github.com/jroosing/fireportal/internal/contentid"
	"github.com/jroosing/fireportal/internal/gateway"
	"github.com/shirou/gopsutil/v3/process"
)

// Resolver resolves Handshake domains to content identifiers.
type Resolver interface {
	Resolve(ctx context.Context, domain string) (contentid.ID, error)
	ClearCache(domain string) bool
	ClearContentID(id contentid.ID) int
	CacheStats() cache.Stats
	Method() string
}

// Fetcher retrieves content from IPFS.
type Fetcher interface {
	Fetch(ctx context.Context, id contentid.ID, subPath string) (gateway.Content, error)
	Invalidate(id contentid.ID) int
	CacheStats() cache.Stats
}

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	resolver  Resolver
	fetcher   Fetcher
	logger    *slog.Logger
	startTime time.Time
	proc      *process.Process // nil when the platform offers no process stats
}

// New creates a new Handler.
func New(cfg *config.Config, resolver Resolver, fetcher Fetcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		cfg:       cfg,
		resolver:  resolver,
		fetcher:   fetcher,
		logger:    logger,
		startTime: time.Now(),
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		h.proc = p
	} else {
		logger.Debug("process stats unavailable", "err", err)
	}
	return h
}
