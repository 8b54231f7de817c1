package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jroosing/fireportal/internal/config"
	"github.com/jroosing/fireportal/internal/contentid"
	"github.com/jroosing/fireportal/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	require.NoError(t, cfg.Validate())
	// Let the OS pick a port.
	cfg.Server.Port = 0
	return cfg
}

func TestBuildComponents(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantMethod string
		wantCache  bool
		wantLimit  bool
	}{
		{"defaults", func(*config.Config) {}, "doh", true, false},
		{"cache disabled", func(c *config.Config) { c.Cache.Enabled = false }, "doh", false, false},
		{"dot", func(c *config.Config) { c.Resolver.Method = "dot" }, "dot", true, false},
		{"local", func(c *config.Config) { c.Resolver.Method = "local" }, "local", true, false},
		{"unknown method", func(c *config.Config) { c.Resolver.Method = "carrier-pigeon" }, "doh", true, false},
		{"rate limited", func(c *config.Config) { c.RateLimit.Enabled = true }, "doh", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)

			comps := BuildComponents(cfg, discardLogger())
			require.NotNil(t, comps.Resolver)
			require.NotNil(t, comps.Fetcher)
			assert.Equal(t, tt.wantMethod, comps.Resolver.Method())
			assert.Equal(t, tt.wantCache, comps.ResolutionCache != nil)
			assert.Equal(t, tt.wantCache, comps.ContentCache != nil)
			assert.Equal(t, tt.wantLimit, comps.RateLimiter != nil)
		})
	}
}

func TestBuildComponents_MutableTTLCeiling(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.TTLSeconds = 3600
	cfg.Cache.IPNSTTLSeconds = 30

	comps := BuildComponents(cfg, discardLogger())
	assert.Equal(t, 30*time.Second, comps.Fetcher.TTLFor(mutableID()))
}

func TestBuildComponents_ContentCacheByteBudget(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.MaxBytes = 8

	comps := BuildComponents(cfg, discardLogger())
	c := comps.ContentCache
	c.Set(gateway.Key{ID: "a"}, gateway.Content{Data: make([]byte, 6)}, time.Hour)
	c.Set(gateway.Key{ID: "b"}, gateway.Content{Data: make([]byte, 6)}, time.Hour)

	st := c.Stats()
	assert.Equal(t, 1, st.Entries)
	assert.Equal(t, int64(6), st.Bytes)
	_, ok := c.Get(gateway.Key{ID: "b"})
	assert.True(t, ok)
}

func TestRunWithContext_ServesAndStops(t *testing.T) {
	cfg := testConfig(t)

	addrCh := make(chan net.Addr, 1)
	r := NewRunner(discardLogger())
	r.OnListen = func(a net.Addr) { addrCh <- a }

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.RunWithContext(ctx, cfg) }()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener not ready")
	}

	resp, err := http.Get("http://" + addr.String() + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "online", body["status"])

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunWithContext_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t)
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port

	err = NewRunner(discardLogger()).RunWithContext(context.Background(), cfg)
	assert.Error(t, err)
}

func TestListenTCPReusePort_SharesPort(t *testing.T) {
	if !reusePortSupported {
		t.Skip("SO_REUSEPORT not supported")
	}
	ctx := context.Background()
	a, err := listenTCPReusePort(ctx, "127.0.0.1:0")
	require.NoError(t, err)
	defer a.Close()

	b, err := listenTCPReusePort(ctx, a.Addr().String())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.Addr().String(), b.Addr().String())
}

func mutableID() contentid.ID { return contentid.Mutable("k51name") }
