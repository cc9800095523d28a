package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nayna-import-api/internal/config"
	"github.com/nayna-import-api/internal/importer"
	"github.com/nayna-import-api/internal/observability"
	"github.com/nayna-import-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigin))
	if cfg.Metrics.Enabled {
		router.Use(metricsMiddleware())
	}

	// Handlers
	importHandler := NewImportHandler(services, cfg, log)
	rosterHandler := NewRosterHandler(services, log)
	exportHandler := NewExportHandler(services, log)

	// Uploads are rate limited per client
	upload := []gin.HandlerFunc{}
	if cfg.RateLimit.Enabled {
		limiter := newUploadLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		upload = append(upload, limiter.middleware())
	}

	// Health check
	router.GET("/health", healthCheck)
	if cfg.Metrics.Enabled {
		reg := observability.InitRegistry()
		router.GET(cfg.Metrics.Path, gin.WrapH(observability.MetricsHandler(reg)))
	}

	// API v1
	v1 := router.Group("/v1")
	{
		v1.GET("/stats", statsHandler(services))

		schemas := v1.Group("/schemas")
		{
			schemas.GET("", exportHandler.ListSchemas)
			schemas.GET("/:kind/template", exportHandler.GetTemplate)
		}

		imports := v1.Group("/imports")
		{
			imports.POST("/preview/:kind", append(upload, importHandler.PreviewImport)...)
			imports.GET("/:job_id", importHandler.GetImportStatus)
			imports.GET("/:job_id/errors", importHandler.GetImportErrors)
		}

		instance := v1.Group("/instances/:instance_id")
		{
			instance.POST("/imports/:kind", append(upload, importHandler.CreateImport)...)
			instance.GET("/imports", importHandler.ListImports)

			instance.GET("/guests", rosterHandler.ListGuests)
			instance.PUT("/guests", rosterHandler.ReplaceGuests)
			instance.GET("/rooms", rosterHandler.ListRooms)
			instance.PUT("/rooms", rosterHandler.ReplaceRooms)

			instance.GET("/exports/:kind", exportHandler.StreamExport)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "nayna-import-api",
	})
}

// statsHandler returns stored record counts per kind
func statsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		counts := gin.H{}
		for _, kind := range importer.Kinds() {
			n, err := services.Export.GetCount(ctx, kind)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count " + kind})
				return
			}
			counts[kind] = n
		}

		c.JSON(http.StatusOK, gin.H{
			"database":  counts,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
