package config

import (
	"strconv"
	"strings"

	"github.com/jroosing/fireportal/internal/helpers"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// applyEnv overlays environment variables onto cfg. Malformed numbers are
// ignored so the file or default value stays in effect.
func applyEnv(cfg *Config, lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			*dst = envBool(v, *dst)
		}
	}

	str("HOST", &cfg.Server.Host)
	num("PORT", &cfg.Server.Port)
	if v, ok := lookup("DASHBOARD_HOST"); ok && strings.TrimSpace(v) != "" {
		cfg.Server.DashboardHosts = helpers.SplitList(v, true)
	}

	str("IPFS_GATEWAY", &cfg.Gateway.URL)
	str("IPFS_API_URL", &cfg.Gateway.APIURL)
	num("IPFS_API_PORT", &cfg.Gateway.APIPort)
	str("GATEWAY_TIMEOUT", &cfg.Gateway.TimeoutRaw)

	str("RESOLUTION_METHOD", &cfg.Resolver.Method)
	str("HNS_DOH_URL", &cfg.Resolver.DoHURL)
	str("HNS_DOT_HOST", &cfg.Resolver.DoTHost)
	num("HNS_DOT_PORT", &cfg.Resolver.DoTPort)
	str("LOCAL_RESOLVER_HOST", &cfg.Resolver.LocalHost)
	num("LOCAL_RESOLVER_PORT", &cfg.Resolver.LocalPort)
	str("RESOLVER_TIMEOUT", &cfg.Resolver.TimeoutRaw)

	flag("CACHE_ENABLED", &cfg.Cache.Enabled)
	num("CACHE_TTL_SECONDS", &cfg.Cache.TTLSeconds)
	num("CACHE_IPNS_TTL_SECONDS", &cfg.Cache.IPNSTTLSeconds)
	num("CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries)
	if v, ok := lookup("CACHE_MAX_BYTES"); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.Cache.MaxBytes = n
		}
	}

	str("LOG_LEVEL", &cfg.Logging.Level)
	flag("LOG_STRUCTURED", &cfg.Logging.Structured)

	str("API_KEY", &cfg.API.APIKey)

	flag("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	if v, ok := lookup("RATE_LIMIT_RPS"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.RateLimit.RPS = f
		}
	}
	num("RATE_LIMIT_BURST", &cfg.RateLimit.Burst)
}

// envBool parses common boolean spellings, returning def when raw is
// empty or unrecognized.
func envBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
