// Package store provides storage abstractions for the identity admin server.
//
// This package defines the interfaces the core and the HTTP endpoints depend
// on, keeping them decoupled from the identity persistence technology. The
// GORM implementation lives in pkg/server/store/gorm and an in-memory one in
// pkg/server/store/memory.
//
// # Available Stores
//
//   - MembershipStore: users, roles and role membership
//   - UsersStore: user lifecycle (create, update, delete) with validation
//   - LogsStore: recent log messages for the log viewer
//   - HealthStore: connectivity checks
//
// # Errors
//
// Lookups return ErrUserNotFound or ErrRoleNotFound when an id does not
// resolve. Rejected operations return a *ValidationError carrying the
// user-facing messages; any other error is an unexpected fault.
//
//	err := s.AddToRole(ctx, user, "Admin")
//	if verr, ok := store.AsValidation(err); ok {
//	    for _, msg := range verr.Messages {
//	        // show msg to the operator
//	    }
//	}
package store
