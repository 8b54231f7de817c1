package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/api/handlers"
	"github.com/jroosing/fireportal/internal/api/middleware"
	"github.com/jroosing/fireportal/internal/config"
	"github.com/jroosing/fireportal/internal/metrics"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jroosing/fireportal/internal/api/docs" // swagger docs
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	if cfg.API.Swagger {
		// Swagger UI at /swagger/*
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/status", h.Status)
	api.GET("/stats", h.Stats)

	// Optional API key protection.
	protected := api.Group("")
	protected.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	protected.GET("/config", h.GetConfig)
	protected.GET("/refresh/:domain", h.Refresh)
	protected.GET("/refresh-ipns/:name", h.RefreshIPNS)

	// Legacy gateway form. The dashboard form /:domain is served from NoRoute.
	r.GET("/hns/:domain", h.HNS)
	r.GET("/hns/:domain/*path", h.HNS)
}
