package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/api/handlers"
	"github.com/jroosing/fireportal/internal/api/middleware"
	"github.com/jroosing/fireportal/internal/router"
)

// HostDispatch serves direct-host requests: any host that is not a dashboard
// host names the domain itself, except for /api paths.
//
// When the pipeline reports an error before writing a response, the request
// continues through ordinary dashboard handling.
func HostDispatch(cls *router.Classifier, h *handlers.Handler, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := c.Request.Method
		if m != http.MethodGet && m != http.MethodHead {
			c.Next()
			return
		}
		route := cls.Classify(c.Request.Host, c.Request.URL.Path)
		if route.Mode != router.ModeDirectHost {
			c.Next()
			return
		}

		middleware.SetMode(c, route.Mode.String())
		err := h.ServePortal(c, route)
		if err == nil {
			c.Abort()
			return
		}
		if c.Writer.Written() {
			h.ServerError(c, err)
			return
		}

		logger.Warn("direct-host request failed, falling back to dashboard",
			"host", route.Host, "path", c.Request.URL.Path, "err", err)
		middleware.SetMode(c, router.ModeDashboard.String())
		c.Next()
	}
}
