package interfaces

// This file contains compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/commlog/internal/audit"
	"github.com/mrlokans/commlog/internal/auth"
	"github.com/mrlokans/commlog/internal/database"
	"github.com/mrlokans/commlog/internal/database/entries"
	"github.com/mrlokans/commlog/internal/database/users"
	"github.com/mrlokans/commlog/internal/http"
	"github.com/mrlokans/commlog/internal/importers"
	"github.com/mrlokans/commlog/internal/memstore"
	"github.com/mrlokans/commlog/internal/scheduler"
	"github.com/mrlokans/commlog/internal/services"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// EntryStore implementations
var _ services.EntryStore = (*entries.Repository)(nil)
var _ services.EntryStore = (*memstore.Store)(nil)

// EntryCreator implementations
var _ importers.EntryCreator = (*services.EntryService)(nil)

// UserLookup implementations
var _ auth.UserLookup = (*users.Repository)(nil)

// =============================================================================
// Housekeeping
// =============================================================================

var _ scheduler.SessionPurger = (*importers.Registry)(nil)
var _ scheduler.AuditPruner = (*audit.Service)(nil)
var _ http.HealthChecker = (*database.Database)(nil)
