package helpers

import "strings"

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty items. Items are lowercased when lower is true.
func SplitList(s string, lower bool) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if lower {
			p = strings.ToLower(p)
		}
		out = append(out, p)
	}
	return out
}
