package http

import (
	"context"

	"github.com/mrlokans/commlog/internal/audit"
	"github.com/mrlokans/commlog/internal/auth"
	"github.com/mrlokans/commlog/internal/importers"
	"github.com/mrlokans/commlog/internal/services"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Entries  *services.EntryService
	Sessions *importers.Registry

	// Optional. Nil when the store has no database behind it.
	Audit    *audit.Service
	Database HealthChecker

	// Nil means every request runs as auth.DefaultUserID.
	AuthMiddleware *auth.Middleware

	// Upload limit for import files, in bytes. Zero disables the check.
	MaxUploadBytes int64

	// Application info
	Version string
}
