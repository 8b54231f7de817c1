package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jroosing/fireportal/internal/dns"
)

var domainRe = regexp.MustCompile(`(?i)^[a-z0-9_-]+(\.[a-z0-9_-]+)*/?$`)

// CheckDomain validates a domain and returns its canonical cache form:
// lowercase with any trailing slash or dot removed.
func CheckDomain(domain string) (string, error) {
	d := strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if !domainRe.MatchString(d) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, domain)
	}
	d = dns.NormalizeName(strings.TrimSuffix(d, "/"))
	if _, err := dns.EncodeName(d); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidName, err)
	}
	return d, nil
}

// ValidDomain reports whether domain passes CheckDomain.
func ValidDomain(domain string) bool {
	_, err := CheckDomain(domain)
	return err == nil
}
