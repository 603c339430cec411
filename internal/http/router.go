package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/commlog/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	entries := NewEntriesController(cfg.Entries, cfg.Audit)
	tags := NewTagsController(cfg.Entries)
	imports := NewImportController(cfg.Sessions, cfg.Audit, cfg.MaxUploadBytes)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	// Entries
	api.GET("/entries", entries.ListEntries)
	api.POST("/entries", entries.CreateEntry)
	api.POST("/entries/bulk-delete", entries.BulkDelete)
	api.GET("/entries/:id", entries.GetEntry)
	api.PUT("/entries/:id", entries.UpdateEntry)
	api.GET("/tags", tags.GetAllTags)

	// Import sessions
	api.GET("/import/template", imports.Template)
	api.POST("/import/preview", imports.Preview)
	api.GET("/import/:id", imports.GetSession)
	api.DELETE("/import/:id", imports.Discard)
	api.POST("/import/:id/commit", imports.Commit)

	// The audit log only exists when there is a database to keep it in
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	return router
}
