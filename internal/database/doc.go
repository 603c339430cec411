// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── entries/         # Entry CRUD, filtering, tags
//	├── audit/           # Audit trail
//	└── users/           # User management
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./commlog.db")
//
//	entriesRepo := entries.NewRepository(db.DB)
//	usersRepo := users.NewRepository(db.DB)
//
// # Interface Implementations
//
//   - entries.Repository: implements services.EntryStore
//   - users.Repository: implements auth.UserLookup
package database
