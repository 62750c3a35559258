package gorm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/idm-admin/pkg/model"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// Ensure MembershipStore implements store.MembershipStore
var _ store.MembershipStore = (*MembershipStore)(nil)

// MembershipStore implements store.MembershipStore using GORM
type MembershipStore struct {
	db *gorm.DB
}

// NewMembershipStore creates a new MembershipStore
func NewMembershipStore(db *gorm.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

// FindUser retrieves a user by id
func (s *MembershipStore) FindUser(ctx context.Context, id string) (*store.User, error) {
	return findUser(s.db.WithContext(ctx), `id = ?`, id)
}

// FindRole retrieves a role by id
func (s *MembershipStore) FindRole(ctx context.Context, id string) (*store.Role, error) {
	var row model.Role
	tx := s.db.WithContext(ctx).Raw(`SELECT id, name, normalized_name, created_at FROM roles WHERE id = ?`, id).Scan(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrRoleNotFound
	}
	return &store.Role{ID: row.ID, Name: row.Name}, nil
}

// ListUsers returns all users ordered by normalized name
func (s *MembershipStore) ListUsers(ctx context.Context) ([]store.User, error) {
	return listUsers(s.db.WithContext(ctx))
}

// ListRoles returns all roles ordered by normalized name
func (s *MembershipStore) ListRoles(ctx context.Context) ([]store.Role, error) {
	var rows []model.Role
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, name, normalized_name, created_at
		FROM roles
		ORDER BY normalized_name, id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	roles := make([]store.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, store.Role{ID: row.ID, Name: row.Name})
	}
	return roles, nil
}

// IsMember checks if the user belongs to the named role
func (s *MembershipStore) IsMember(ctx context.Context, user store.User, roleName string) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(`
		SELECT EXISTS(
			SELECT 1 FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = ? AND r.normalized_name = ?
		)
	`, user.ID, store.Normalize(roleName)).Scan(&exists).Error
	return exists, err
}

// AddToRole adds the user to the named role
func (s *MembershipStore) AddToRole(ctx context.Context, user store.User, roleName string) error {
	db := s.db.WithContext(ctx)

	roleID, err := roleIDByName(db, roleName)
	if err != nil {
		return err
	}
	if err := userExists(db, user.ID); err != nil {
		return err
	}

	tx := db.Exec(`
		INSERT INTO user_roles (user_id, role_id)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`, user.ID, roleID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.Failures(store.AlreadyInRole(roleName))
	}
	return nil
}

// RemoveFromRole removes the user from the named role
func (s *MembershipStore) RemoveFromRole(ctx context.Context, user store.User, roleName string) error {
	db := s.db.WithContext(ctx)

	roleID, err := roleIDByName(db, roleName)
	if err != nil {
		return err
	}
	if err := userExists(db, user.ID); err != nil {
		return err
	}

	tx := db.Exec(`DELETE FROM user_roles WHERE user_id = ? AND role_id = ?`, user.ID, roleID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.Failures(store.NotInRole(roleName))
	}
	return nil
}

// CreateRole creates a role with the given name
func (s *MembershipStore) CreateRole(ctx context.Context, name string) (*store.Role, error) {
	if msgs := store.CheckRoleName(name); msgs != nil {
		return nil, store.Failures(msgs...)
	}

	id := uuid.New().String()
	tx := s.db.WithContext(ctx).Exec(`
		INSERT INTO roles (id, name, normalized_name)
		VALUES (?, ?, ?)
		ON CONFLICT (normalized_name) DO NOTHING
	`, id, name, store.Normalize(name))
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.Failures(store.RoleNameTaken(name))
	}
	return &store.Role{ID: id, Name: name}, nil
}

// DeleteRole deletes a role; memberships cascade
func (s *MembershipStore) DeleteRole(ctx context.Context, role store.Role) error {
	tx := s.db.WithContext(ctx).Exec(`DELETE FROM roles WHERE id = ?`, role.ID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrRoleNotFound
	}
	return nil
}

// RenameRole changes the name of a role
func (s *MembershipStore) RenameRole(ctx context.Context, role store.Role, newName string) error {
	if msgs := store.CheckRoleName(newName); msgs != nil {
		return store.Failures(msgs...)
	}

	db := s.db.WithContext(ctx)
	normalized := store.Normalize(newName)

	var taken bool
	err := db.Raw(`SELECT EXISTS(SELECT 1 FROM roles WHERE normalized_name = ? AND id <> ?)`, normalized, role.ID).
		Scan(&taken).Error
	if err != nil {
		return err
	}
	if taken {
		return store.Failures(store.RoleNameTaken(newName))
	}

	tx := db.Exec(`UPDATE roles SET name = ?, normalized_name = ? WHERE id = ?`, newName, normalized, role.ID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrRoleNotFound
	}
	return nil
}

func roleIDByName(db *gorm.DB, roleName string) (string, error) {
	var row model.Role
	tx := db.Raw(`SELECT id, name, normalized_name, created_at FROM roles WHERE normalized_name = ?`, store.Normalize(roleName)).
		Scan(&row)
	if tx.Error != nil {
		return "", fmt.Errorf("failed to look up role %q: %w", roleName, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return "", store.Failures(store.RoleDoesNotExist(roleName))
	}
	return row.ID, nil
}

func userExists(db *gorm.DB, id string) error {
	var exists bool
	if err := db.Raw(`SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists).Error; err != nil {
		return err
	}
	if !exists {
		return store.ErrUserNotFound
	}
	return nil
}

func findUser(db *gorm.DB, where string, arg interface{}) (*store.User, error) {
	var row model.User
	tx := db.Raw(`SELECT id, user_name, normalized_user_name, email, created_at FROM users WHERE `+where, arg).Scan(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrUserNotFound
	}
	return &store.User{ID: row.ID, UserName: row.UserName, Email: row.Email}, nil
}

func listUsers(db *gorm.DB) ([]store.User, error) {
	var rows []model.User
	err := db.Raw(`
		SELECT id, user_name, normalized_user_name, email, created_at
		FROM users
		ORDER BY normalized_user_name, id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]store.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, store.User{ID: row.ID, UserName: row.UserName, Email: row.Email})
	}
	return users, nil
}
