package store

import "context"

// User is an identity known to the store
type User struct {
	ID       string `json:"id"`
	UserName string `json:"name"`
	Email    string `json:"email"`
}

// Role is a named authorization group
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MembershipStore abstracts user, role and membership storage operations.
// Mutations return nil, a *ValidationError, or an unexpected fault.
type MembershipStore interface {
	// FindUser retrieves a user by id. Returns ErrUserNotFound if missing.
	FindUser(ctx context.Context, id string) (*User, error)

	// FindRole retrieves a role by id. Returns ErrRoleNotFound if missing.
	FindRole(ctx context.Context, id string) (*Role, error)

	// ListUsers returns all users in a stable order
	ListUsers(ctx context.Context) ([]User, error)

	// ListRoles returns all roles in a stable order
	ListRoles(ctx context.Context) ([]Role, error)

	// IsMember checks if the user belongs to the named role
	IsMember(ctx context.Context, user User, roleName string) (bool, error)

	// AddToRole adds the user to the named role
	AddToRole(ctx context.Context, user User, roleName string) error

	// RemoveFromRole removes the user from the named role
	RemoveFromRole(ctx context.Context, user User, roleName string) error

	// CreateRole creates a role with the given name
	CreateRole(ctx context.Context, name string) (*Role, error)

	// DeleteRole deletes a role and its memberships
	DeleteRole(ctx context.Context, role Role) error

	// RenameRole changes the name of an existing role
	RenameRole(ctx context.Context, role Role, newName string) error
}
