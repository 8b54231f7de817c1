package api

import (
	"embed"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/api/handlers"
	"github.com/jroosing/fireportal/internal/api/models"
	"github.com/jroosing/fireportal/internal/resolver"
	"github.com/jroosing/fireportal/internal/router"
)

// Embedded dashboard assets.
//
// Layout:
//
//	dist/
//	  index.html
//	  assets/app.js
//	  assets/style.css
//
//go:embed dist
var embeddedUI embed.FS

func getEmbedFs() static.ServeFileSystem {
	fs, err := static.EmbedFolder(embeddedUI, "dist")
	if err != nil {
		panic("failed to get embedded UI filesystem: " + err.Error())
	}
	return fs
}

// MountSPA serves the embedded dashboard and routes every unmatched path.
//
// Unmatched /api paths get a JSON 404. A non-reserved first segment names a
// domain and runs the gateway pipeline in dashboard mode. Everything else,
// including invalid domain names, gets the dashboard's index.html.
func MountSPA(r *gin.Engine, h *handlers.Handler, logger *slog.Logger) {
	distFS := getEmbedFs()
	r.Use(static.Serve("/", distFS))

	serveIndex := func(c *gin.Context) {
		index, err := distFS.Open("index.html")
		if err != nil {
			logger.Error("failed to open index.html", "error", err)
			c.String(http.StatusInternalServerError, "dashboard unavailable")
			return
		}
		defer index.Close()
		stat, err := index.Stat()
		if err != nil {
			logger.Error("failed to stat index.html", "error", err)
			c.String(http.StatusInternalServerError, "dashboard unavailable")
			return
		}
		http.ServeContent(c.Writer, c.Request, "index.html", stat.ModTime(), index)
	}

	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if router.IsAPIPath(p) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found", Path: p})
			return
		}
		m := c.Request.Method
		if m != http.MethodGet && m != http.MethodHead {
			serveIndex(c)
			return
		}

		route := router.ClassifyPath(p)
		if route.Reserved {
			serveIndex(c)
			return
		}
		route.Host = router.NormalizeHost(c.Request.Host)

		err := h.ServePortal(c, route)
		switch {
		case err == nil:
		case errors.Is(err, resolver.ErrInvalidName) && !c.Writer.Written():
			serveIndex(c)
		default:
			h.ServerError(c, err)
		}
	})
}
