// Package dns implements the small slice of the DNS wire format that FirePortal
// needs to speak DNS-over-HTTPS and DNS-over-TLS without a resolver library.
//
// Standards:
//
//   - RFC 1035: message header, name encoding, question and resource record layout
//   - RFC 1035 Section 3.3.14: TXT RDATA as a sequence of character-strings
//   - RFC 8484: DNS-over-HTTPS carries these bytes unchanged as the HTTP body
//   - RFC 7858: DNS-over-TLS frames them with a 2-byte length prefix
//
// Decoding is intentionally narrow: names in a response are skipped, never
// reconstructed, so compression pointers are recognised but not followed.
//
// Error Handling:
//
// Errors wrap one of the sentinels below with fmt.Errorf("...: %w", err) so
// callers can classify failures with errors.Is.
package dns

import (
	"errors"
	"fmt"
)

var (
	// ErrDNSError is the root of every error returned by this package.
	ErrDNSError = errors.New("dns wire error")

	// ErrInvalidName is returned when a name cannot be encoded: empty labels,
	// labels over 63 bytes, names over 255 bytes or non-ASCII input.
	ErrInvalidName = fmt.Errorf("%w: invalid name", ErrDNSError)

	// ErrMalformedMessage is returned when a message is truncated or an
	// offset runs past the end of the buffer.
	ErrMalformedMessage = fmt.Errorf("%w: malformed message", ErrDNSError)
)
