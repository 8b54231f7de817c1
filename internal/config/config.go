// Package config loads FirePortal configuration.
//
// Values come from built-in defaults, then an optional YAML file, then
// environment variables; later sources win. Validate normalizes the result.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the application version reported by /api/status.
// It can be overridden at build time with -ldflags.
var Version = "0.1.0"

// DefaultCacheMaxBytes is the default content cache byte budget.
const DefaultCacheMaxBytes = 256 << 20

// ConfigEnvVar names the environment variable holding the config file path.
const ConfigEnvVar = "FIREPORTAL_CONFIG"

// Resolution methods accepted in resolver.method.
var validMethods = map[string]bool{"doh": true, "dot": true, "local": true}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           3000,
			DashboardHosts: []string{"localhost", "127.0.0.1"},
		},
		Gateway: GatewayConfig{
			URL:        "https://ipfs.io",
			APIPort:    5001,
			TimeoutRaw: "30s",
		},
		Resolver: ResolverConfig{
			Method:     "doh",
			DoHURL:     "https://hnsdoh.com/dns-query",
			DoTHost:    "hnsdoh.com",
			DoTPort:    853,
			LocalHost:  "127.0.0.1",
			LocalPort:  53,
			TimeoutRaw: "5s",
		},
		Cache: CacheConfig{
			Enabled:        true,
			TTLSeconds:     3600,
			IPNSTTLSeconds: 60,
			MaxEntries:     10000,
			MaxBytes:       DefaultCacheMaxBytes,
		},
		Logging: LoggingConfig{
			Level:            "INFO",
			StructuredFormat: "json",
		},
		API: APIConfig{Swagger: true},
		RateLimit: RateLimitConfig{
			RPS:        20,
			Burst:      40,
			MaxClients: 10000,
		},
	}
}

// ResolveConfigPath returns the flag value if set, else FIREPORTAL_CONFIG.
func ResolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(ConfigEnvVar))
}

// Load builds the configuration from defaults, the YAML file at path (if
// non-empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New("server.port must be 1..65535")
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	hosts := cfg.Server.DashboardHosts[:0]
	for _, h := range cfg.Server.DashboardHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	cfg.Server.DashboardHosts = hosts
	if len(cfg.Server.DashboardHosts) == 0 {
		cfg.Server.DashboardHosts = []string{"localhost", "127.0.0.1"}
	}

	if err := validateHTTPURL("gateway.url", cfg.Gateway.URL); err != nil {
		return err
	}
	if cfg.Gateway.APIURL != "" {
		if err := validateHTTPURL("gateway.api_url", cfg.Gateway.APIURL); err != nil {
			return err
		}
		if cfg.Gateway.APIPort < 0 || cfg.Gateway.APIPort > 65535 {
			return errors.New("gateway.api_port must be 0..65535")
		}
	}
	d, err := parseDuration(cfg.Gateway.TimeoutRaw, 30*time.Second)
	if err != nil {
		return fmt.Errorf("gateway.timeout: %w", err)
	}
	cfg.Gateway.Timeout = d

	// Unknown methods are kept and fall back to DoH at startup with a log line.
	cfg.Resolver.Method = strings.ToLower(strings.TrimSpace(cfg.Resolver.Method))
	if cfg.Resolver.Method == "" {
		cfg.Resolver.Method = "doh"
	}
	if err := validateHTTPURL("resolver.doh_url", cfg.Resolver.DoHURL); err != nil {
		return err
	}
	if cfg.Resolver.DoTPort <= 0 || cfg.Resolver.DoTPort > 65535 {
		return errors.New("resolver.dot_port must be 1..65535")
	}
	if cfg.Resolver.LocalPort <= 0 || cfg.Resolver.LocalPort > 65535 {
		return errors.New("resolver.local_port must be 1..65535")
	}
	d, err = parseDuration(cfg.Resolver.TimeoutRaw, 5*time.Second)
	if err != nil {
		return fmt.Errorf("resolver.timeout: %w", err)
	}
	cfg.Resolver.Timeout = d

	if cfg.Cache.TTLSeconds < 0 || cfg.Cache.IPNSTTLSeconds < 0 {
		return errors.New("cache TTLs must not be negative")
	}
	if cfg.Cache.MaxBytes < 0 {
		return errors.New("cache.max_bytes must not be negative")
	}
	if cfg.Cache.MaxBytes == 0 {
		cfg.Cache.MaxBytes = DefaultCacheMaxBytes
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 3600
	}
	if cfg.Cache.IPNSTTLSeconds == 0 {
		cfg.Cache.IPNSTTLSeconds = 60
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = 10000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RPS <= 0 {
			return errors.New("rate_limit.rps must be positive when rate limiting is enabled")
		}
		if cfg.RateLimit.Burst <= 0 {
			cfg.RateLimit.Burst = max(1, int(cfg.RateLimit.RPS))
		}
		if cfg.RateLimit.MaxClients <= 0 {
			cfg.RateLimit.MaxClients = 10000
		}
	}
	return nil
}

// KnownMethod reports whether the resolver method is one of doh, dot, local.
func (cfg *Config) KnownMethod() bool {
	return validMethods[cfg.Resolver.Method]
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}

// parseDuration accepts Go durations ("5s") or plain seconds ("5").
func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("must be positive, got %q", raw)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %q", raw)
	}
	return d, nil
}
