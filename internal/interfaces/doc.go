// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - EntryStore: Entry persistence (internal/services/interfaces.go)
//   - EntryCreator: Where committed import rows go (internal/importers/session.go)
//   - UserLookup: API token resolution (internal/auth/middleware.go)
//
// ## Housekeeping Interfaces
//
//   - SessionPurger: Drops idle import sessions (internal/scheduler/jobs.go)
//   - AuditPruner: Trims the audit log (internal/scheduler/jobs.go)
//   - HealthChecker: Store liveness for /health (internal/http/config.go)
//
// # Adding a New Storage Backend
//
//  1. Implement services.EntryStore in its own package, mirroring the
//     filtering rules of entities.EntryFilter.Matches.
//
//  2. Add a backend value to config.StorageBackend and a case to
//     entrypoint.NewApp.
//
//  3. Add a compile-time check to checks.go and a parity test against
//     memstore like the one in internal/database/entries.
//
// # Adding a New Import Language
//
// Column headers and category labels are alias tables. Append the new
// language's headers to importers.FieldAliases and its labels to the
// category alias map, then add a sheet to the template.
//
// # Compile-Time Interface Checks
//
// Implementations are checked at compile time rather than at runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
