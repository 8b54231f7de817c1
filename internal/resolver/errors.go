// Package resolver turns Handshake domains into content identifiers.
//
// A Client looks up TXT records with one of three strategies (DNS-over-HTTPS,
// DNS-over-TLS with a DoH fallback, or a local resolver), extracts the first
// content identifier it finds and caches the result per lowercase domain.
package resolver

import (
	"errors"
	"fmt"

	"github.com/jroosing/fireportal/internal/dns"
)

var (
	// ErrInvalidName is returned for domains that fail syntax or DNS length
	// checks. Such names are never sent upstream.
	ErrInvalidName = fmt.Errorf("resolver: %w", dns.ErrInvalidName)

	// ErrNotFound means the domain has no usable content record.
	// Every upstream and decode failure is reported as ErrNotFound.
	ErrNotFound = errors.New("resolver: domain not found")

	// ErrUpstreamUnavailable marks transport or HTTP failures talking to a
	// resolver. Strategies return it; Client collapses it into ErrNotFound.
	ErrUpstreamUnavailable = errors.New("resolver: upstream unavailable")
)
