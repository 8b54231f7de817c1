package gateway

import (
	"path"
	"strings"
)

// DefaultMediaType is used when neither the upstream nor the extension
// table names a type.
const DefaultMediaType = "application/octet-stream"

var mediaTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".pdf":   "application/pdf",
	".txt":   "text/plain",
	".xml":   "application/xml",
	".wasm":  "application/wasm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// MediaTypeForPath derives a media type from the extension of p.
func MediaTypeForPath(p string) string {
	if p == "" {
		return DefaultMediaType
	}
	if mt, ok := mediaTypes[strings.ToLower(path.Ext(p))]; ok {
		return mt
	}
	return DefaultMediaType
}

// IsHTML reports whether mediaType names an HTML document.
func IsHTML(mediaType string) bool {
	mt, _, _ := strings.Cut(mediaType, ";")
	return strings.EqualFold(strings.TrimSpace(mt), "text/html")
}
