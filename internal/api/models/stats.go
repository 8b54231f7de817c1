package models

import "time"

// StatsResponse contains runtime and cache statistics.
type StatsResponse struct {
	Uptime           string         `json:"uptime"`
	UptimeSeconds    int64          `json:"uptime_seconds"`
	StartTime        time.Time      `json:"start_time"`
	GoRoutines       int            `json:"goroutines"`
	NumCPU           int            `json:"num_cpu"`
	Process          *ProcessStats  `json:"process,omitempty"`
	ResolutionMethod string         `json:"resolution_method"`
	Caches           CacheStatsPair `json:"caches"`
}

// ProcessStats holds host-level figures for this process.
type ProcessStats struct {
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
}

// CacheStatsPair holds the counters of both caches.
type CacheStatsPair struct {
	Resolution CacheStats `json:"resolution"`
	Content    CacheStats `json:"content"`
}

// CacheStats mirrors cache.Stats for the API.
type CacheStats struct {
	Enabled   bool   `json:"enabled"`
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Expired   uint64 `json:"expired"`
	Bytes     int64  `json:"bytes"`
}
