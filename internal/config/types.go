package config

import "time"

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`

	// DashboardHosts are the host names that serve the dashboard. Any other
	// host header is treated as a Handshake domain (direct-host mode).
	DashboardHosts []string `yaml:"dashboard_hosts" json:"dashboard_hosts"`

	// ReusePort sets SO_REUSEPORT on the listener where supported.
	ReusePort bool `yaml:"reuse_port" json:"reuse_port"`
}

// GatewayConfig contains IPFS content retrieval settings.
type GatewayConfig struct {
	URL          string        `yaml:"url" json:"url"`
	APIURL       string        `yaml:"api_url" json:"api_url,omitempty"` // optional IPFS RPC API, e.g. http://127.0.0.1
	APIPort      int           `yaml:"api_port" json:"api_port"`
	TimeoutRaw   string        `yaml:"timeout" json:"timeout"` // e.g. "30s"
	Timeout      time.Duration `yaml:"-" json:"-"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// ResolverConfig contains Handshake resolution settings.
type ResolverConfig struct {
	Method     string        `yaml:"method" json:"method"` // "doh", "dot" or "local"
	DoHURL     string        `yaml:"doh_url" json:"doh_url"`
	DoTHost    string        `yaml:"dot_host" json:"dot_host"`
	DoTPort    int           `yaml:"dot_port" json:"dot_port"`
	LocalHost  string        `yaml:"local_host" json:"local_host"`
	LocalPort  int           `yaml:"local_port" json:"local_port"`
	TimeoutRaw string        `yaml:"timeout" json:"timeout"` // e.g. "5s"
	Timeout    time.Duration `yaml:"-" json:"-"`
}

// CacheConfig controls the resolution and content caches.
type CacheConfig struct {
	Enabled        bool `yaml:"enabled" json:"enabled"`
	TTLSeconds     int  `yaml:"ttl_seconds" json:"ttl_seconds"`
	IPNSTTLSeconds int  `yaml:"ipns_ttl_seconds" json:"ipns_ttl_seconds"` // ceiling for mutable content
	MaxEntries     int  `yaml:"max_entries" json:"max_entries"`           // per cache

	// MaxBytes bounds the summed body size held by the content cache.
	// Larger documents are served but not cached.
	MaxBytes int64 `yaml:"max_bytes" json:"max_bytes"`
}

// TTL returns the configured cache lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// IPNSTTL returns the lifetime ceiling for mutable content.
func (c CacheConfig) IPNSTTL() time.Duration {
	return time.Duration(c.IPNSTTLSeconds) * time.Second
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `yaml:"level" json:"level"`
	Structured       bool              `yaml:"structured" json:"structured"`
	StructuredFormat string            `yaml:"structured_format" json:"structured_format"`
	IncludePID       bool              `yaml:"include_pid" json:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields" json:"extra_fields,omitempty"`
}

// APIConfig contains dashboard API settings.
//
// APIKey is a secret and must never be returned by API endpoints.
type APIConfig struct {
	APIKey  string `yaml:"api_key" json:"-"`
	Swagger bool   `yaml:"swagger" json:"swagger"`
}

// RateLimitConfig controls per-client request rate limiting.
type RateLimitConfig struct {
	Enabled    bool    `yaml:"enabled" json:"enabled"`
	RPS        float64 `yaml:"rps" json:"rps"`
	Burst      int     `yaml:"burst" json:"burst"`
	MaxClients int     `yaml:"max_clients" json:"max_clients"` // tracked client limiters
}

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Gateway   GatewayConfig   `yaml:"gateway" json:"gateway"`
	Resolver  ResolverConfig  `yaml:"resolver" json:"resolver"`
	Cache     CacheConfig     `yaml:"cache" json:"cache"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	API       APIConfig       `yaml:"api" json:"api"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
}
