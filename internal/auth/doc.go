// Package auth resolves the user a request acts for.
//
// It supports two modes:
//   - "none": No authentication required (default), all requests use DefaultUserID
//   - "token": every /api request carries "Authorization: Bearer <token>"
//
// # Configuration
//
//	AUTH_MODE=none   # Default, single user
//	AUTH_MODE=token  # Tokens are issued with "commlog users create <name>"
//
// Token mode needs the sqlite storage backend, where users live.
//
// # Usage
//
//	authMiddleware := auth.NewMiddleware(usersRepo, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c)  // Returns DefaultUserID in "none" mode
package auth
