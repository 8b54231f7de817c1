// Package server wires the FirePortal components together and runs the
// HTTP server until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jroosing/fireportal/internal/api"
	"github.com/jroosing/fireportal/internal/api/middleware"
	"github.com/jroosing/fireportal/internal/cache"
	"github.com/jroosing/fireportal/internal/config"
	"github.com/jroosing/fireportal/internal/contentid"
	"github.com/jroosing/fireportal/internal/gateway"
	"github.com/jroosing/fireportal/internal/resolver"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Components are the runtime pieces built from a configuration.
type Components struct {
	Resolver *resolver.Client
	Fetcher  *gateway.Fetcher

	// Caches are nil when caching is disabled.
	ResolutionCache *cache.TTLCache[string, contentid.ID]
	ContentCache    *cache.TTLCache[gateway.Key, gateway.Content]

	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *middleware.RateLimiter
}

// BuildComponents creates the resolver, fetcher, caches and rate limiter
// described by cfg.
func BuildComponents(cfg *config.Config, logger *slog.Logger) *Components {
	c := &Components{}
	if cfg.Cache.Enabled {
		c.ResolutionCache = cache.New[string, contentid.ID](cfg.Cache.MaxEntries)
		c.ContentCache = cache.New[gateway.Key, gateway.Content](cfg.Cache.MaxEntries,
			cache.WithMaxBytes(cfg.Cache.MaxBytes))
	}

	c.Resolver = resolver.New(resolver.Options{
		Method:    cfg.Resolver.Method,
		DoHURL:    cfg.Resolver.DoHURL,
		DoTHost:   cfg.Resolver.DoTHost,
		DoTPort:   cfg.Resolver.DoTPort,
		LocalHost: cfg.Resolver.LocalHost,
		LocalPort: cfg.Resolver.LocalPort,
		Timeout:   cfg.Resolver.Timeout,
	}, c.ResolutionCache, cfg.Cache.TTL(), logger)

	c.Fetcher = gateway.New(gateway.Options{
		GatewayURL:   cfg.Gateway.URL,
		APIURL:       cfg.Gateway.APIURL,
		APIPort:      cfg.Gateway.APIPort,
		Timeout:      cfg.Gateway.Timeout,
		TTL:          cfg.Cache.TTL(),
		MutableTTL:   cfg.Cache.IPNSTTL(),
		MaxBodyBytes: cfg.Gateway.MaxBodyBytes,
	}, c.ContentCache, logger)

	if cfg.RateLimit.Enabled {
		c.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
	}
	return c
}

// Runner orchestrates startup, background sweeping and shutdown.
type Runner struct {
	logger *slog.Logger

	// OnListen, if set, is called with the bound address once the listener
	// is open.
	OnListen func(net.Addr)
}

// NewRunner creates a new server runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run starts the server and blocks until SIGINT or SIGTERM.
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg)
}

// RunWithContext starts the server and blocks until ctx is canceled or the
// server fails.
//
// Goroutines: the HTTP server, its shutdown watcher, one sweeper per
// enabled cache and the rate limiter sweeper. All exit with ctx.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config) error {
	comps := BuildComponents(cfg, r.logger)
	srv := api.New(cfg, api.Deps{
		Resolver:    comps.Resolver,
		Fetcher:     comps.Fetcher,
		RateLimiter: comps.RateLimiter,
	}, r.logger)

	ln, err := r.listen(ctx, srv.Addr(), cfg.Server.ReusePort)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr(), err)
	}
	r.logStartup(cfg, ln.Addr(), comps)
	if r.OnListen != nil {
		r.OnListen(ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("graceful shutdown incomplete", "err", err)
		}
		return nil
	})

	if comps.ResolutionCache != nil {
		g.Go(func() error {
			comps.ResolutionCache.Run(gctx, cache.SweepInterval(cfg.Cache.TTL()))
			return nil
		})
	}
	if comps.ContentCache != nil {
		// Mutable entries live at most the IPNS ceiling; sweep at that pace.
		interval := cache.SweepInterval(min(cfg.Cache.TTL(), cfg.Cache.IPNSTTL()))
		g.Go(func() error {
			comps.ContentCache.Run(gctx, interval)
			return nil
		})
	}
	if comps.RateLimiter != nil {
		g.Go(func() error {
			comps.RateLimiter.Run(gctx)
			return nil
		})
	}

	err = g.Wait()
	r.logger.Info("fireportal stopped")
	return err
}

func (r *Runner) listen(ctx context.Context, addr string, reusePort bool) (net.Listener, error) {
	if reusePort {
		if reusePortSupported {
			return listenTCPReusePort(ctx, addr)
		}
		r.logger.Warn("SO_REUSEPORT not supported on this platform, using a plain listener")
	}
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// logStartup logs server configuration at startup.
func (r *Runner) logStartup(cfg *config.Config, addr net.Addr, comps *Components) {
	r.logger.Info(
		"http listening",
		"addr", addr.String(),
		"dashboard_hosts", cfg.Server.DashboardHosts,
		"gateway", cfg.Gateway.URL,
		"ipfs_api", cfg.Gateway.APIURL != "",
		"resolution_method", comps.Resolver.Method(),
		"cache", cfg.Cache.Enabled,
		"cache_ttl", cfg.Cache.TTL(),
		"ipns_ttl", cfg.Cache.IPNSTTL(),
		"rate_limit", cfg.RateLimit.Enabled,
	)
}
