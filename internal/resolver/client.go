package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jroosing/fireportal/internal/cache"
	"github.com/jroosing/fireportal/internal/contentid"
	"github.com/jroosing/fireportal/internal/dns"
	"github.com/jroosing/fireportal/internal/metrics"
)

// Resolution strategies.
const (
	MethodDoH   = "doh"
	MethodDoT   = "dot"
	MethodLocal = "local"
)

// Options selects and configures the lookup strategy.
type Options struct {
	Method    string
	DoHURL    string
	DoTHost   string
	DoTPort   int
	LocalHost string
	LocalPort int
	Timeout   time.Duration
}

// NewLookup builds the TXTLookup for opts.Method and returns it with the
// effective method name. Unknown methods fall back to DoH.
func NewLookup(opts Options, logger *slog.Logger) (TXTLookup, string) {
	doh := NewDoH(opts.DoHURL, opts.Timeout)
	switch strings.ToLower(strings.TrimSpace(opts.Method)) {
	case MethodDoH, "":
		return doh, MethodDoH
	case MethodDoT:
		return NewDoT(opts.DoTHost, opts.DoTPort, opts.Timeout, doh, logger), MethodDoT
	case MethodLocal:
		return NewLocal(opts.LocalHost, opts.LocalPort, opts.Timeout), MethodLocal
	default:
		logger.Info("unknown resolution method, using DoH", "method", opts.Method)
		return doh, MethodDoH
	}
}

// Client resolves domains to content identifiers through a TXTLookup and a
// resolution cache keyed by lowercase domain.
//
// There is no cache bypass: ClearCache and ClearContentID are the only ways
// to force a fresh lookup before the TTL runs out.
type Client struct {
	lookup TXTLookup
	method string
	cache  *cache.TTLCache[string, contentid.ID]
	ttl    time.Duration
	logger *slog.Logger
}

// NewClient wires a Client. A nil cache disables resolution caching.
func NewClient(lookup TXTLookup, method string, c *cache.TTLCache[string, contentid.ID], ttl time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{lookup: lookup, method: method, cache: c, ttl: ttl, logger: logger}
}

// New builds the lookup strategy from opts and wraps it in a Client.
func New(opts Options, c *cache.TTLCache[string, contentid.ID], ttl time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	lookup, method := NewLookup(opts, logger)
	return NewClient(lookup, method, c, ttl, logger)
}

// Method returns the effective resolution strategy.
func (c *Client) Method() string { return c.method }

// Resolve returns the content identifier published for domain.
//
// Names failing validation return ErrInvalidName without any upstream call.
// Every other failure is logged and returned as ErrNotFound.
func (c *Client) Resolve(ctx context.Context, domain string) (contentid.ID, error) {
	key, err := CheckDomain(domain)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues(c.method, "invalid").Inc()
		return contentid.ID{}, err
	}

	if c.cache != nil {
		id, ok := c.cache.Get(key)
		metrics.CacheLookupsTotal.WithLabelValues("resolution", metrics.CacheResult(ok)).Inc()
		if ok {
			metrics.ResolutionsTotal.WithLabelValues(c.method, "cached").Inc()
			return id, nil
		}
	}

	records, err := c.lookup.LookupTXT(ctx, key)
	if err != nil {
		c.logFailure(key, err)
		metrics.ResolutionsTotal.WithLabelValues(c.method, "error").Inc()
		return contentid.ID{}, fmt.Errorf("%w: %s (%v)", ErrNotFound, key, err)
	}

	id, ok := contentid.Extract(records)
	if !ok {
		c.logger.Debug("no content record", "domain", key, "records", len(records))
		metrics.ResolutionsTotal.WithLabelValues(c.method, "not_found").Inc()
		return contentid.ID{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	if c.cache != nil {
		c.cache.Set(key, id, c.ttl)
	}
	c.logger.Debug("resolved domain", "domain", key, "content_id", id.String())
	metrics.ResolutionsTotal.WithLabelValues(c.method, "resolved").Inc()
	return id, nil
}

func (c *Client) logFailure(domain string, err error) {
	switch {
	case errors.Is(err, dns.ErrMalformedMessage):
		c.logger.Warn("malformed DNS response", "domain", domain, "method", c.method, "err", err)
	case errors.Is(err, ErrUpstreamUnavailable):
		c.logger.Warn("resolver upstream unavailable", "domain", domain, "method", c.method, "err", err)
	default:
		c.logger.Error("resolution failed", "domain", domain, "method", c.method, "err", err)
	}
}

// ClearCache drops the cached resolution for domain and reports whether an
// entry was removed. Invalid names are ignored.
func (c *Client) ClearCache(domain string) bool {
	if c.cache == nil {
		return false
	}
	key, err := CheckDomain(domain)
	if err != nil {
		return false
	}
	removed := c.cache.Delete(key)
	if removed {
		metrics.CacheInvalidationsTotal.WithLabelValues("resolution").Inc()
	}
	return removed
}

// ClearContentID drops every cached resolution that points at id and
// returns how many were removed.
func (c *Client) ClearContentID(id contentid.ID) int {
	if c.cache == nil {
		return 0
	}
	n := c.cache.DeleteFunc(func(_ string, v contentid.ID) bool { return v == id })
	metrics.CacheInvalidationsTotal.WithLabelValues("resolution").Add(float64(n))
	return n
}

// CacheStats returns the resolution cache counters.
func (c *Client) CacheStats() cache.Stats {
	if c.cache == nil {
		return cache.Stats{}
	}
	return c.cache.Stats()
}
