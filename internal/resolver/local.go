package resolver

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jroosing/fireportal/internal/metrics"
	mdns "github.com/miekg/dns"
)

// Local resolves TXT records against a resolver the operator runs next to
// the portal, such as hnsd or hsd's recursive server.
type Local struct {
	Addr   string
	Client *mdns.Client
}

// NewLocal creates a lookup against host:port over UDP.
func NewLocal(host string, port int, timeout time.Duration) *Local {
	return &Local{
		Addr:   net.JoinHostPort(host, strconv.Itoa(port)),
		Client: &mdns.Client{Net: "udp", Timeout: timeout},
	}
}

// LookupTXT queries the local resolver. The character-strings of each TXT
// record are concatenated into one value.
func (l *Local) LookupTXT(ctx context.Context, domain string) ([]string, error) {
	m := new(mdns.Msg)
	m.SetQuestion(mdns.Fqdn(domain), mdns.TypeTXT)

	timer := metrics.NewTimer()
	r, _, err := l.Client.ExchangeContext(ctx, m, l.Addr)
	timer.ObserveDuration(metrics.UpstreamDuration.WithLabelValues("local"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, l.Addr, err)
	}
	if r.Rcode != mdns.RcodeSuccess {
		return []string{}, nil
	}

	out := make([]string, 0, len(r.Answer))
	for _, rr := range r.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			out = append(out, strings.Join(txt.Txt, ""))
		}
	}
	return out, nil
}
