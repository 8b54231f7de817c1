package resolver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jroosing/fireportal/internal/dns"
	"github.com/jroosing/fireportal/internal/metrics"
)

const dnsMessageType = "application/dns-message"

// TXTLookup fetches the TXT strings published for a domain.
//
// A lookup that reaches the resolver but finds no data returns an empty
// slice and a nil error.
type TXTLookup interface {
	LookupTXT(ctx context.Context, domain string) ([]string, error)
}

// DoH resolves TXT records with RFC 8484 POST requests.
type DoH struct {
	URL    string
	Client *http.Client
}

// NewDoH creates a DoH lookup whose HTTP client gives up after timeout.
func NewDoH(url string, timeout time.Duration) *DoH {
	return &DoH{URL: url, Client: &http.Client{Timeout: timeout}}
}

// LookupTXT sends a TXT query to the DoH endpoint.
func (d *DoH) LookupTXT(ctx context.Context, domain string) ([]string, error) {
	q, err := dns.EncodeQuery(domain, randomID(), dns.TypeTXT)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(q))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", dnsMessageType)
	req.Header.Set("Accept", dnsMessageType)

	timer := metrics.NewTimer()
	resp, err := d.Client.Do(req)
	timer.ObserveDuration(metrics.UpstreamDuration.WithLabelValues("doh"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: DoH status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, dns.MaxMessageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstreamUnavailable, err)
	}
	return dns.DecodeTXTResponse(body)
}

func randomID() uint16 {
	return uint16(rand.Uint32()) //nolint:gosec // transaction id, not a secret
}
