package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/api/models"
	"github.com/jroosing/fireportal/internal/gateway"
	"github.com/jroosing/fireportal/internal/resolver"
	"github.com/jroosing/fireportal/internal/rewrite"
	"github.com/jroosing/fireportal/internal/router"
)

const (
	msgDomainNotFound  = "Domain not found or has no IPFS record"
	msgContentNotFound = "Content not found on IPFS network"
	msgServerError     = "Server error processing request"

	indexDocument = "index.html"
)

// ErrPortalFault marks an unexpected failure inside the gateway pipeline.
var ErrPortalFault = errors.New("portal fault")

// ServePortal runs the gateway pipeline for route and writes the response.
//
// Soft failures (unknown domain, missing content) are written as 404 JSON and
// reported as success. An invalid domain name returns an error wrapping
// resolver.ErrInvalidName and a recovered panic one wrapping ErrPortalFault;
// in both cases nothing has been written unless c.Writer.Written says so.
func (h *Handler) ServePortal(c *gin.Context, route router.Route) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPortalFault, r)
		}
	}()

	ctx := c.Request.Context()
	id, err := h.resolver.Resolve(ctx, route.Domain)
	if err != nil {
		if errors.Is(err, resolver.ErrInvalidName) {
			return err
		}
		domainNotFound(c, route.Domain)
		return nil
	}

	subPath := strings.TrimPrefix(route.SubPath, "/")
	content, err := h.fetcher.Fetch(ctx, id, subPath)
	if err != nil && subPath == "" && errors.Is(err, gateway.ErrNotFound) {
		content, err = h.fetcher.Fetch(ctx, id, indexDocument)
	}
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   msgContentNotFound,
			Message: fmt.Sprintf("Nothing found at %s/%s", id, subPath),
			CID:     id.Value(),
			Path:    subPath,
		})
		return nil
	}

	if !gateway.IsHTML(content.MediaType) {
		c.Data(http.StatusOK, content.MediaType, content.Data)
		return nil
	}

	html := rewrite.Rewrite(string(content.Data), rewrite.Context{
		Domain:     route.Domain,
		SubPath:    subPath,
		DirectHost: route.Mode == router.ModeDirectHost,
	})
	c.Data(http.StatusOK, content.MediaType, []byte(html))
	return nil
}

// HNS godoc
// @Summary Serve a Handshake site
// @Description Resolves the domain and serves the content at path, rewriting HTML links
// @Tags gateway
// @Produce octet-stream
// @Param domain path string true "Handshake domain"
// @Param path path string false "Path inside the site"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /hns/{domain}/{path} [get]
func (h *Handler) HNS(c *gin.Context) {
	route := router.Route{
		Mode:    router.ModeDashboard,
		Host:    router.NormalizeHost(c.Request.Host),
		Domain:  c.Param("domain"),
		SubPath: strings.TrimPrefix(c.Param("path"), "/"),
	}
	err := h.ServePortal(c, route)
	switch {
	case err == nil:
	case errors.Is(err, resolver.ErrInvalidName):
		domainNotFound(c, route.Domain)
	default:
		h.ServerError(c, err)
	}
}

func domainNotFound(c *gin.Context, domain string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   msgDomainNotFound,
		Message: "No TXT record with an IPFS identifier for " + domain,
		Domain:  domain,
	})
}

// ServerError logs err and writes the generic 500 body.
func (h *Handler) ServerError(c *gin.Context, err error) {
	h.logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgServerError})
}
