package gorm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db     *gorm.DB
	policy store.PasswordPolicy
	cost   int
}

// NewUsersStore creates a new UsersStore enforcing policy on passwords
func NewUsersStore(db *gorm.DB, policy store.PasswordPolicy) *UsersStore {
	return &UsersStore{db: db, policy: policy, cost: bcrypt.DefaultCost}
}

// FindUser retrieves a user by id
func (s *UsersStore) FindUser(ctx context.Context, id string) (*store.User, error) {
	return findUser(s.db.WithContext(ctx), `id = ?`, id)
}

// FindUserByName retrieves a user by user name, ignoring case
func (s *UsersStore) FindUserByName(ctx context.Context, name string) (*store.User, error) {
	return findUser(s.db.WithContext(ctx), `normalized_user_name = ?`, store.Normalize(name))
}

// ListUsers returns all users ordered by normalized name
func (s *UsersStore) ListUsers(ctx context.Context) ([]store.User, error) {
	return listUsers(s.db.WithContext(ctx))
}

// CreateUser validates and creates a user with a bcrypt password hash
func (s *UsersStore) CreateUser(ctx context.Context, nu store.NewUser) (*store.User, error) {
	db := s.db.WithContext(ctx)

	msgs, err := s.checkUser(db, store.User{UserName: nu.UserName})
	if err != nil {
		return nil, err
	}
	msgs = append(msgs, s.policy.Check(nu.Password)...)
	if len(msgs) > 0 {
		return nil, store.Failures(msgs...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := store.User{ID: uuid.New().String(), UserName: nu.UserName, Email: nu.Email}
	tx := db.Exec(`
		INSERT INTO users (id, user_name, normalized_user_name, email, password_hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (normalized_user_name) DO NOTHING
	`, u.ID, u.UserName, store.Normalize(u.UserName), u.Email, hash)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.Failures(store.UserNameTaken(nu.UserName))
	}
	return &u, nil
}

// ValidateUser checks the user name rules and uniqueness
func (s *UsersStore) ValidateUser(ctx context.Context, user store.User) error {
	msgs, err := s.checkUser(s.db.WithContext(ctx), user)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		return store.Failures(msgs...)
	}
	return nil
}

// ValidatePassword checks a password against the password policy
func (s *UsersStore) ValidatePassword(_ context.Context, password string) error {
	if msgs := s.policy.Check(password); len(msgs) > 0 {
		return store.Failures(msgs...)
	}
	return nil
}

// UpdateUser validates and stores new values for a user
func (s *UsersStore) UpdateUser(ctx context.Context, update store.UserUpdate) error {
	db := s.db.WithContext(ctx)

	if err := userExists(db, update.ID); err != nil {
		return err
	}

	msgs, err := s.checkUser(db, store.User{ID: update.ID, UserName: update.UserName})
	if err != nil {
		return err
	}
	if update.Password != "" {
		msgs = append(msgs, s.policy.Check(update.Password)...)
	}
	if len(msgs) > 0 {
		return store.Failures(msgs...)
	}

	if update.Password == "" {
		return db.Exec(`
			UPDATE users SET user_name = ?, normalized_user_name = ?, email = ?
			WHERE id = ?
		`, update.UserName, store.Normalize(update.UserName), update.Email, update.ID).Error
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return db.Exec(`
		UPDATE users SET user_name = ?, normalized_user_name = ?, email = ?, password_hash = ?
		WHERE id = ?
	`, update.UserName, store.Normalize(update.UserName), update.Email, hash, update.ID).Error
}

// DeleteUser deletes a user; memberships cascade
func (s *UsersStore) DeleteUser(ctx context.Context, user store.User) error {
	tx := s.db.WithContext(ctx).Exec(`DELETE FROM users WHERE id = ?`, user.ID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func (s *UsersStore) checkUser(db *gorm.DB, user store.User) ([]string, error) {
	if msgs := store.CheckUserName(user.UserName); msgs != nil {
		return msgs, nil
	}

	var taken bool
	err := db.Raw(`SELECT EXISTS(SELECT 1 FROM users WHERE normalized_user_name = ? AND id <> ?)`,
		store.Normalize(user.UserName), user.ID).Scan(&taken).Error
	if err != nil {
		return nil, err
	}
	if taken {
		return []string{store.UserNameTaken(user.UserName)}, nil
	}
	return nil, nil
}
