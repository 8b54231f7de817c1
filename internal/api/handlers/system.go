package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/api/models"
	"github.com/jroosing/fireportal/internal/cache"
	"github.com/jroosing/fireportal/internal/config"
)

// Status godoc
// @Summary Service status
// @Description Returns liveness and version
// @Tags system
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /api/status [get]
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "online", Version: config.Version})
}

// Stats godoc
// @Summary Runtime statistics
// @Description Returns uptime, goroutines, process usage and cache counters
// @Tags system
// @Produce json
// @Success 200 {object} models.StatsResponse
// @Router /api/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	uptime := time.Since(h.startTime)
	cacheOn := h.cfg == nil || h.cfg.Cache.Enabled

	resp := models.StatsResponse{
		Uptime:           uptime.Round(time.Second).String(),
		UptimeSeconds:    int64(uptime.Seconds()),
		StartTime:        h.startTime,
		GoRoutines:       runtime.NumGoroutine(),
		NumCPU:           runtime.NumCPU(),
		ResolutionMethod: h.resolver.Method(),
		Caches: models.CacheStatsPair{
			Resolution: toCacheStats(h.resolver.CacheStats(), cacheOn),
			Content:    toCacheStats(h.fetcher.CacheStats(), cacheOn),
		},
	}

	if h.proc != nil {
		ps := &models.ProcessStats{}
		if mem, err := h.proc.MemoryInfoWithContext(c.Request.Context()); err == nil {
			ps.RSSBytes = mem.RSS
		}
		if pct, err := h.proc.CPUPercentWithContext(c.Request.Context()); err == nil {
			ps.CPUPercent = pct
		}
		resp.Process = ps
	}

	c.JSON(http.StatusOK, resp)
}

func toCacheStats(s cache.Stats, enabled bool) models.CacheStats {
	return models.CacheStats{
		Enabled:   enabled,
		Entries:   s.Entries,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
		Expired:   s.Expired,
		Bytes:     s.Bytes,
	}
}

// GetConfig godoc
// @Summary Effective configuration
// @Description Returns the running configuration (API key redacted)
// @Tags system
// @Produce json
// @Success 200 {object} config.Config
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/config [get]
func (h *Handler) GetConfig(c *gin.Context) {
	if h.cfg == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "config unavailable"})
		return
	}
	c.JSON(http.StatusOK, h.cfg)
}
