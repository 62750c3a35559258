package store

import "context"

// NewUser holds the fields needed to create a user
type NewUser struct {
	UserName string
	Email    string
	Password string
}

// UserUpdate holds the new values for an existing user.
// An empty Password keeps the current password hash.
type UserUpdate struct {
	ID       string
	UserName string
	Email    string
	Password string
}

// UsersStore abstracts user lifecycle operations
type UsersStore interface {
	// FindUser retrieves a user by id. Returns ErrUserNotFound if missing.
	FindUser(ctx context.Context, id string) (*User, error)

	// FindUserByName retrieves a user by user name (case-insensitive)
	FindUserByName(ctx context.Context, name string) (*User, error)

	// ListUsers returns all users in a stable order
	ListUsers(ctx context.Context) ([]User, error)

	// CreateUser validates and creates a user with a hashed password
	CreateUser(ctx context.Context, user NewUser) (*User, error)

	// ValidateUser checks the user name rules and uniqueness
	ValidateUser(ctx context.Context, user User) error

	// ValidatePassword checks a candidate password against the password policy
	ValidatePassword(ctx context.Context, password string) error

	// UpdateUser validates and stores new values for a user
	UpdateUser(ctx context.Context, update UserUpdate) error

	// DeleteUser deletes a user and its memberships
	DeleteUser(ctx context.Context, user User) error
}
