package handlers

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/api/models"
	"github.com/jroosing/fireportal/internal/contentid"
	"github.com/jroosing/fireportal/internal/resolver"
)

var ipnsNameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Refresh godoc
// @Summary Refresh a domain
// @Description Drops the cached resolution of a domain. Cached content is kept.
// @Tags cache
// @Produce json
// @Param domain path string true "Handshake domain"
// @Success 200 {object} models.RefreshResponse
// @Failure 400 {object} models.RefreshResponse
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/refresh/{domain} [get]
func (h *Handler) Refresh(c *gin.Context) {
	domain := c.Param("domain")
	if !resolver.ValidDomain(domain) {
		c.JSON(http.StatusBadRequest, models.RefreshResponse{Success: false, Message: "Invalid domain format"})
		return
	}

	removed := h.resolver.ClearCache(domain)
	h.logger.Info("resolution cache refreshed", "domain", domain, "removed", removed)

	now := time.Now().UTC()
	c.JSON(http.StatusOK, models.RefreshResponse{
		Success:   true,
		Message:   "Cache cleared for " + domain,
		Timestamp: &now,
	})
}

// RefreshIPNS godoc
// @Summary Refresh an IPNS name
// @Description Drops cached resolutions pointing at the name and all cached content under it
// @Tags cache
// @Produce json
// @Param name path string true "IPNS name"
// @Success 200 {object} models.RefreshResponse
// @Failure 400 {object} models.RefreshResponse
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/refresh-ipns/{name} [get]
func (h *Handler) RefreshIPNS(c *gin.Context) {
	name := c.Param("name")
	if !ipnsNameRe.MatchString(name) {
		c.JSON(http.StatusBadRequest, models.RefreshResponse{Success: false, Message: "Invalid IPNS name format"})
		return
	}

	id := contentid.Mutable(name)
	resolutions := h.resolver.ClearContentID(id)
	contents := h.fetcher.Invalidate(id)
	h.logger.Info("IPNS cache refreshed", "name", name, "resolutions", resolutions, "contents", contents)

	now := time.Now().UTC()
	c.JSON(http.StatusOK, models.RefreshResponse{
		Success:   true,
		Message:   "IPNS cache cleared for " + name,
		Timestamp: &now,
	})
}
