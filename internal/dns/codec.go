package dns

import (
	"fmt"
	"strings"
)

// Name limits from RFC 1035 Section 2.3.4.
const (
	MaxLabelLength = 63
	MaxNameLength  = 255
)

// NormalizeName returns a lowercase DNS name without trailing dots.
// DNS names are case-insensitive per RFC 1035 Section 3.1.
func NormalizeName(name string) string {
	return strings.ToLower(trimDot(name))
}

// EncodeName encodes a domain name to DNS wire format (RFC 1035 Section 3.1).
//
// Each label is written as a length byte followed by the label bytes and the
// sequence is terminated by a zero-length label:
//
//	"www.example.com" -> [3]www[7]example[3]com[0]
//
// No compression is performed. Empty names, empty labels, labels longer than
// 63 bytes, non-ASCII bytes and encodings longer than 255 bytes are rejected
// with ErrInvalidName.
func EncodeName(domain string) ([]byte, error) {
	if domain == "" {
		return nil, fmt.Errorf("%w: domain name must be non-empty", ErrInvalidName)
	}
	domain = trimDot(domain)
	if domain == "" {
		return []byte{0}, nil // Root domain
	}

	out := make([]byte, 0, len(domain)+2)
	labelStart := 0
	for i := 0; i <= len(domain); i++ {
		if i < len(domain) && domain[i] != '.' {
			continue
		}
		if i == labelStart {
			return nil, fmt.Errorf("%w: empty label in %q", ErrInvalidName, domain)
		}
		label := domain[labelStart:i]
		for j := range len(label) {
			if label[j] > 0x7F {
				return nil, fmt.Errorf("%w: domain name must be ASCII", ErrInvalidName)
			}
		}
		if len(label) > MaxLabelLength {
			return nil, fmt.Errorf("%w: label too long (%d > %d): %q", ErrInvalidName, len(label), MaxLabelLength, label)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
		labelStart = i + 1
	}
	out = append(out, 0)

	if len(out) > MaxNameLength {
		return nil, fmt.Errorf("%w: encoded name too long (%d > %d)", ErrInvalidName, len(out), MaxNameLength)
	}
	return out, nil
}

// skipName advances *off past an encoded name without decoding it.
//
// The walk stops at a zero-length label or at a compression pointer (top two
// bits set), which occupies exactly two bytes. Pointers are not followed: every
// name this package reads from a response is discarded.
func skipName(msg []byte, off *int) error {
	for {
		if *off >= len(msg) {
			return fmt.Errorf("%w: unexpected EOF while skipping name", ErrMalformedMessage)
		}
		labelLen := msg[*off]
		*off++

		if labelLen == 0 {
			return nil
		}
		if isCompressionPointer(labelLen) {
			if *off >= len(msg) {
				return fmt.Errorf("%w: unexpected EOF in compression pointer", ErrMalformedMessage)
			}
			*off++
			return nil
		}
		if *off+int(labelLen) > len(msg) {
			return fmt.Errorf("%w: label runs past end of message", ErrMalformedMessage)
		}
		*off += int(labelLen)
	}
}

// isCompressionPointer checks if the label length byte indicates a compression pointer.
// Compression pointers have the two high bits set (11xxxxxx = 0xC0 mask).
func isCompressionPointer(b byte) bool {
	return (b & 0xC0) == 0xC0
}

// trimDot removes all trailing dots from a string.
func trimDot(s string) string {
	for len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
