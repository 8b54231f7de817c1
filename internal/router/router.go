// Package router classifies inbound requests into dashboard and
// direct-host routes.
//
// A request whose host is one of the dashboard hosts is in dashboard mode:
// the first path segment names the domain unless it is a reserved word.
// Any other host is in direct-host mode: the host itself is the domain and
// the whole path is the sub-path. API paths are always dashboard requests.
package router

import (
	"net"
	"strings"
)

// Mode is the addressing scheme of a request.
type Mode int

const (
	ModeDashboard Mode = iota
	ModeDirectHost
)

func (m Mode) String() string {
	if m == ModeDirectHost {
		return "direct"
	}
	return "dashboard"
}

// Route is the classification of one request. It is computed per request
// and never cached.
type Route struct {
	Mode    Mode
	Host    string // normalized host header
	Domain  string // domain to resolve, empty for reserved dashboard paths
	SubPath string // path inside the content, without leading slash

	// Reserved is set for dashboard paths that belong to the API, static
	// assets or the SPA rather than to a domain.
	Reserved bool
}

// reservedSegments are first path segments that never name a domain on the
// dashboard host.
var reservedSegments = map[string]struct{}{
	"api":         {},
	"hns":         {},
	"public":      {},
	"assets":      {},
	"static":      {},
	"images":      {},
	"css":         {},
	"js":          {},
	"favicon.ico": {},
}

// IsReserved reports whether segment is a reserved first path segment.
func IsReserved(segment string) bool {
	_, ok := reservedSegments[strings.ToLower(segment)]
	return ok
}

// NormalizeHost strips any port, lowercases and drops a trailing dot.
// Bracketed IPv6 literals lose their brackets.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	return strings.TrimSuffix(strings.ToLower(host), ".")
}

// IsAPIPath reports whether p is /api or below it.
func IsAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

// Classifier decides the routing mode for a host and path.
type Classifier struct {
	dashboardHosts map[string]struct{}
}

// NewClassifier creates a classifier for the given dashboard hosts.
func NewClassifier(dashboardHosts []string) *Classifier {
	c := &Classifier{dashboardHosts: make(map[string]struct{}, len(dashboardHosts))}
	for _, h := range dashboardHosts {
		if n := NormalizeHost(h); n != "" {
			c.dashboardHosts[n] = struct{}{}
		}
	}
	return c
}

// IsDashboardHost reports whether host serves the dashboard. Requests
// without a host header are treated as dashboard requests.
func (c *Classifier) IsDashboardHost(host string) bool {
	n := NormalizeHost(host)
	if n == "" {
		return true
	}
	_, ok := c.dashboardHosts[n]
	return ok
}

// Classify computes the Route for host and URL path p.
func (c *Classifier) Classify(host, p string) Route {
	h := NormalizeHost(host)
	if !c.IsDashboardHost(h) && !IsAPIPath(p) {
		return Route{
			Mode:    ModeDirectHost,
			Host:    h,
			Domain:  h,
			SubPath: strings.TrimPrefix(p, "/"),
		}
	}

	r := ClassifyPath(p)
	r.Host = h
	return r
}

// ClassifyPath computes the dashboard-mode Route for URL path p.
func ClassifyPath(p string) Route {
	seg, rest, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	if seg == "" || IsReserved(seg) {
		return Route{Mode: ModeDashboard, Reserved: true}
	}
	return Route{Mode: ModeDashboard, Domain: seg, SubPath: rest}
}
