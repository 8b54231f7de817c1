// Package gateway fetches content for resolved identifiers from an HTTP
// IPFS gateway, with an optional fallback to a node's RPC API, and caches
// the result per (namespace, identifier, path).
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jroosing/fireportal/internal/cache"
	"github.com/jroosing/fireportal/internal/contentid"
	"github.com/jroosing/fireportal/internal/metrics"
	"github.com/jroosing/fireportal/internal/pool"
)

// Defaults applied by New when the corresponding option is zero.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMutableTTL   = 60 * time.Second
	DefaultMaxBodyBytes = 64 << 20
)

var (
	// ErrNotFound means the identifier has no content at the requested path.
	ErrNotFound = errors.New("gateway: content not found")

	// ErrUpstreamUnavailable marks transport failures. Fetch logs them and
	// reports ErrNotFound.
	ErrUpstreamUnavailable = errors.New("gateway: upstream unavailable")
)

// Key identifies a cached document.
type Key struct {
	Namespace contentid.Namespace
	ID        string
	Path      string
}

// Content is a fetched document. Cached values are never mutated.
type Content struct {
	Data      []byte
	MediaType string
	CachedAt  time.Time
}

// Size reports the body length, which counts against the content cache's
// byte budget.
func (c Content) Size() int64 { return int64(len(c.Data)) }

// Options configures a Fetcher.
type Options struct {
	GatewayURL   string
	APIURL       string // optional IPFS RPC API base, e.g. http://127.0.0.1
	APIPort      int
	Timeout      time.Duration
	TTL          time.Duration // content TTL for immutable identifiers
	MutableTTL   time.Duration // ceiling for mutable identifiers
	MaxBodyBytes int64
}

// Fetcher retrieves content for identifiers and caches it.
type Fetcher struct {
	gatewayURL string
	rpcURL     string
	client     *http.Client
	cache      *cache.TTLCache[Key, Content]
	ttl        time.Duration
	mutableTTL time.Duration
	maxBody    int64
	buffers    *pool.BufferPool
	logger     *slog.Logger
}

// New creates a Fetcher. A nil cache disables content caching.
func New(opts Options, c *cache.TTLCache[Key, Content], logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MutableTTL <= 0 {
		opts.MutableTTL = DefaultMutableTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	f := &Fetcher{
		gatewayURL: strings.TrimRight(opts.GatewayURL, "/"),
		client:     &http.Client{Timeout: opts.Timeout},
		cache:      c,
		ttl:        opts.TTL,
		mutableTTL: opts.MutableTTL,
		maxBody:    opts.MaxBodyBytes,
		buffers:    pool.NewBufferPool(32*1024, 4<<20),
		logger:     logger,
	}
	if opts.APIURL != "" {
		f.rpcURL = strings.TrimRight(opts.APIURL, "/")
		if opts.APIPort > 0 {
			f.rpcURL += ":" + strconv.Itoa(opts.APIPort)
		}
	}
	return f
}

// TTLFor returns the cache lifetime for content of id: the configured TTL
// for immutable identifiers and min(TTL, mutable ceiling) for mutable ones.
func (f *Fetcher) TTLFor(id contentid.ID) time.Duration {
	if id.IsMutable() {
		return min(f.ttl, f.mutableTTL)
	}
	return f.ttl
}

// Fetch returns the document at subPath under id.
//
// Non-2xx answers yield ErrNotFound. Transport failures are logged and also
// reported as ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, id contentid.ID, subPath string) (Content, error) {
	subPath = strings.TrimPrefix(subPath, "/")
	key := Key{Namespace: id.Namespace(), ID: id.Value(), Path: subPath}
	ns := id.Namespace().String()

	if f.cache != nil {
		c, ok := f.cache.Get(key)
		metrics.CacheLookupsTotal.WithLabelValues("content", metrics.CacheResult(ok)).Inc()
		if ok {
			return c, nil
		}
	}

	content, err := f.fetchGateway(ctx, id, subPath)
	source := "gateway"
	if err != nil && f.rpcURL != "" && ctx.Err() == nil {
		f.logger.Debug("gateway fetch failed, trying RPC API", "id", id.String(), "path", subPath, "err", err)
		if rc, rerr := f.fetchRPC(ctx, id, subPath); rerr == nil {
			content, err, source = rc, nil, "rpc"
		}
	}
	if err != nil {
		metrics.GatewayFetchesTotal.WithLabelValues(ns, source, "error").Inc()
		if errors.Is(err, ErrUpstreamUnavailable) {
			f.logger.Warn("content upstream unavailable", "id", id.String(), "path", subPath, "err", err)
		} else {
			f.logger.Debug("content not found", "id", id.String(), "path", subPath, "err", err)
		}
		return Content{}, fmt.Errorf("%w: %s/%s", ErrNotFound, id.String(), subPath)
	}
	metrics.GatewayFetchesTotal.WithLabelValues(ns, source, "ok").Inc()

	content.CachedAt = time.Now()
	if f.cache != nil {
		f.cache.Set(key, content, f.TTLFor(id))
	}
	return content, nil
}

// GatewayURL returns the gateway address for id and subPath.
func (f *Fetcher) GatewayURL(id contentid.ID, subPath string) string {
	u := f.gatewayURL + id.String()
	if subPath != "" {
		u += "/" + escapePath(subPath)
	}
	return u
}

func (f *Fetcher) fetchGateway(ctx context.Context, id contentid.ID, subPath string) (Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.GatewayURL(id, subPath), nil)
	if err != nil {
		return Content{}, fmt.Errorf("%w: build request: %w", ErrUpstreamUnavailable, err)
	}

	timer := metrics.NewTimer()
	resp, err := f.client.Do(req)
	timer.ObserveDuration(metrics.UpstreamDuration.WithLabelValues("gateway"))
	if err != nil {
		return Content{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Content{}, fmt.Errorf("%w: gateway status %d", ErrNotFound, resp.StatusCode)
	}

	data, err := f.readBody(resp.Body)
	if err != nil {
		return Content{}, err
	}
	mt := resp.Header.Get("Content-Type")
	if mt == "" {
		mt = MediaTypeForPath(subPath)
	}
	return Content{Data: data, MediaType: mt}, nil
}

// fetchRPC reads the document through the node's /api/v0/cat endpoint.
func (f *Fetcher) fetchRPC(ctx context.Context, id contentid.ID, subPath string) (Content, error) {
	arg := id.String()
	if subPath != "" {
		arg += "/" + subPath
	}
	u := f.rpcURL + "/api/v0/cat?" + url.Values{"arg": {arg}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return Content{}, fmt.Errorf("%w: build request: %w", ErrUpstreamUnavailable, err)
	}

	timer := metrics.NewTimer()
	resp, err := f.client.Do(req)
	timer.ObserveDuration(metrics.UpstreamDuration.WithLabelValues("rpc"))
	if err != nil {
		return Content{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Content{}, fmt.Errorf("%w: rpc status %d", ErrNotFound, resp.StatusCode)
	}
	data, err := f.readBody(resp.Body)
	if err != nil {
		return Content{}, err
	}
	return Content{Data: data, MediaType: MediaTypeForPath(subPath)}, nil
}

// readBody copies at most maxBody bytes through a pooled buffer.
func (f *Fetcher) readBody(r io.Reader) ([]byte, error) {
	buf := f.buffers.Get()
	defer f.buffers.Put(buf)

	n, err := buf.ReadFrom(io.LimitReader(r, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstreamUnavailable, err)
	}
	if n > f.maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrUpstreamUnavailable, f.maxBody)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// Invalidate drops every cached path of id and returns how many entries
// were removed.
func (f *Fetcher) Invalidate(id contentid.ID) int {
	if f.cache == nil {
		return 0
	}
	ns, v := id.Namespace(), id.Value()
	n := f.cache.DeleteFunc(func(k Key, _ Content) bool {
		return k.Namespace == ns && k.ID == v
	})
	metrics.CacheInvalidationsTotal.WithLabelValues("content").Add(float64(n))
	return n
}

// CacheStats returns the content cache counters.
func (f *Fetcher) CacheStats() cache.Stats {
	if f.cache == nil {
		return cache.Stats{}
	}
	return f.cache.Stats()
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
