package resolver

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/jroosing/fireportal/internal/dns"
	"github.com/jroosing/fireportal/internal/helpers"
	"github.com/jroosing/fireportal/internal/metrics"
)

// DialFunc opens a connection to addr. DoT uses it to reach the server.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// DoT resolves TXT records over DNS-over-TLS (RFC 7858).
//
// When no host is configured, or the TLS exchange fails for any reason other
// than an invalid name, the lookup is retried through Fallback and a warning
// is logged: the portal is then running in degraded mode.
type DoT struct {
	Addr     string
	Timeout  time.Duration
	Fallback TXTLookup
	Logger   *slog.Logger

	dial DialFunc
}

// NewDoT creates a DoT lookup for host:port with a TLS dialer that verifies
// host, requires TLS 1.2 and offers the "dot" ALPN protocol.
func NewDoT(host string, port int, timeout time.Duration, fallback TXTLookup, logger *slog.Logger) *DoT {
	d := &DoT{Timeout: timeout, Fallback: fallback, Logger: logger}
	if host == "" {
		return d
	}
	d.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	tlsDialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second},
		Config: &tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
			NextProtos: []string{"dot"},
		},
	}
	d.dial = tlsDialer.DialContext
	return d
}

// LookupTXT queries the DoT server, falling back to DoH on failure.
func (d *DoT) LookupTXT(ctx context.Context, domain string) ([]string, error) {
	if d.Addr == "" || d.dial == nil {
		return d.fallback(ctx, domain, errors.New("DoT host not configured"))
	}
	txt, err := d.exchange(ctx, domain)
	if err == nil {
		return txt, nil
	}
	if errors.Is(err, dns.ErrInvalidName) {
		return nil, err
	}
	return d.fallback(ctx, domain, err)
}

func (d *DoT) fallback(ctx context.Context, domain string, cause error) ([]string, error) {
	metrics.DoTFallbacksTotal.Inc()
	if d.Logger != nil {
		d.Logger.Warn("DNS-over-TLS unavailable, using DoH fallback (degraded mode)",
			"domain", domain, "dot_addr", d.Addr, "err", cause)
	}
	if d.Fallback == nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, cause)
	}
	return d.Fallback.LookupTXT(ctx, domain)
}

// exchange performs one length-prefixed query/response round trip.
func (d *DoT) exchange(ctx context.Context, domain string) ([]string, error) {
	q, err := dns.EncodeQuery(domain, randomID(), dns.TypeTXT)
	if err != nil {
		return nil, err
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.UpstreamDuration.WithLabelValues("dot"))

	conn, err := d.dial(ctx, "tcp", d.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrUpstreamUnavailable, d.Addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], helpers.ClampIntToUint16(len(q)))
	if _, err := conn.Write(append(prefix[:], q...)); err != nil {
		return nil, fmt.Errorf("%w: write: %w", ErrUpstreamUnavailable, err)
	}

	if _, err := io.ReadFull(conn, prefix[:]); err != nil {
		return nil, fmt.Errorf("%w: read length: %w", ErrUpstreamUnavailable, err)
	}
	respLen := int(binary.BigEndian.Uint16(prefix[:]))
	if respLen == 0 {
		return nil, fmt.Errorf("%w: empty DoT response", dns.ErrMalformedMessage)
	}
	resp := make([]byte, respLen)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUpstreamUnavailable, err)
	}
	return dns.DecodeTXTResponse(resp)
}
