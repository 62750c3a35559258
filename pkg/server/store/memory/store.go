// Package memory provides an in-memory implementation of the store
// interfaces, used by `idmctl server --in-memory` and by tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

var (
	_ store.MembershipStore = (*Store)(nil)
	_ store.UsersStore      = (*Store)(nil)
	_ store.LogsStore       = (*Store)(nil)
	_ store.HealthStore     = (*Store)(nil)
	_ audit.Sink            = (*Store)(nil)
)

type userRecord struct {
	user         store.User
	normalized   string
	passwordHash []byte
}

type roleRecord struct {
	role       store.Role
	normalized string
	members    map[string]struct{}
}

// Store keeps users, roles, memberships and log entries in memory
type Store struct {
	mu     sync.RWMutex
	users  map[string]*userRecord
	roles  map[string]*roleRecord
	logs   []store.LogEntry
	policy store.PasswordPolicy
}

// Option configures a Store
type Option func(*Store)

// WithPasswordPolicy sets the rules applied to new passwords
func WithPasswordPolicy(p store.PasswordPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		users:  make(map[string]*userRecord),
		roles:  make(map[string]*roleRecord),
		policy: store.DefaultPasswordPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedUser adds a user with a known id, bypassing validation
func (s *Store) SeedUser(id, userName, email string) store.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := store.User{ID: id, UserName: userName, Email: email}
	s.users[id] = &userRecord{user: u, normalized: store.Normalize(userName)}
	return u
}

// SeedRole adds a role with a known id, bypassing validation
func (s *Store) SeedRole(id, name string) store.Role {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := store.Role{ID: id, Name: name}
	s.roles[id] = &roleRecord{role: r, normalized: store.Normalize(name), members: make(map[string]struct{})}
	return r
}

// FindUser retrieves a user by id
func (s *Store) FindUser(_ context.Context, id string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := rec.user
	return &u, nil
}

// FindUserByName retrieves a user by user name, ignoring case
func (s *Store) FindUserByName(_ context.Context, name string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.userByName(name)
	if rec == nil {
		return nil, store.ErrUserNotFound
	}
	u := rec.user
	return &u, nil
}

// FindRole retrieves a role by id
func (s *Store) FindRole(_ context.Context, id string) (*store.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.roles[id]
	if !ok {
		return nil, store.ErrRoleNotFound
	}
	r := rec.role
	return &r, nil
}

// ListUsers returns all users ordered by name
func (s *Store) ListUsers(_ context.Context) ([]store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*userRecord, 0, len(s.users))
	for _, rec := range s.users {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b *userRecord) int {
		return cmp.Or(cmp.Compare(a.normalized, b.normalized), cmp.Compare(a.user.ID, b.user.ID))
	})

	users := make([]store.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.user)
	}
	return users, nil
}

// ListRoles returns all roles ordered by name
func (s *Store) ListRoles(_ context.Context) ([]store.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*roleRecord, 0, len(s.roles))
	for _, rec := range s.roles {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b *roleRecord) int {
		return cmp.Or(cmp.Compare(a.normalized, b.normalized), cmp.Compare(a.role.ID, b.role.ID))
	})

	roles := make([]store.Role, 0, len(recs))
	for _, rec := range recs {
		roles = append(roles, rec.role)
	}
	return roles, nil
}

// IsMember reports whether the user belongs to the named role.
// An unknown role has no members.
func (s *Store) IsMember(_ context.Context, user store.User, roleName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.roleByName(roleName)
	if rec == nil {
		return false, nil
	}
	_, ok := rec.members[user.ID]
	return ok, nil
}

// AddToRole adds the user to the named role
func (s *Store) AddToRole(_ context.Context, user store.User, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	rec := s.roleByName(roleName)
	if rec == nil {
		return store.Failures(store.RoleDoesNotExist(roleName))
	}
	if _, ok := rec.members[user.ID]; ok {
		return store.Failures(store.AlreadyInRole(roleName))
	}
	rec.members[user.ID] = struct{}{}
	return nil
}

// RemoveFromRole removes the user from the named role
func (s *Store) RemoveFromRole(_ context.Context, user store.User, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	rec := s.roleByName(roleName)
	if rec == nil {
		return store.Failures(store.RoleDoesNotExist(roleName))
	}
	if _, ok := rec.members[user.ID]; !ok {
		return store.Failures(store.NotInRole(roleName))
	}
	delete(rec.members, user.ID)
	return nil
}

// CreateRole creates a role with the given name
func (s *Store) CreateRole(_ context.Context, name string) (*store.Role, error) {
	if msgs := store.CheckRoleName(name); msgs != nil {
		return nil, store.Failures(msgs...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roleByName(name) != nil {
		return nil, store.Failures(store.RoleNameTaken(name))
	}

	r := store.Role{ID: uuid.New().String(), Name: name}
	s.roles[r.ID] = &roleRecord{role: r, normalized: store.Normalize(name), members: make(map[string]struct{})}
	return &r, nil
}

// DeleteRole deletes a role and its memberships
func (s *Store) DeleteRole(_ context.Context, role store.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[role.ID]; !ok {
		return store.ErrRoleNotFound
	}
	delete(s.roles, role.ID)
	return nil
}

// RenameRole changes the name of a role
func (s *Store) RenameRole(_ context.Context, role store.Role, newName string) error {
	if msgs := store.CheckRoleName(newName); msgs != nil {
		return store.Failures(msgs...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.roles[role.ID]
	if !ok {
		return store.ErrRoleNotFound
	}
	if other := s.roleByName(newName); other != nil && other.role.ID != role.ID {
		return store.Failures(store.RoleNameTaken(newName))
	}
	rec.role.Name = newName
	rec.normalized = store.Normalize(newName)
	return nil
}

// CreateUser validates and creates a user
func (s *Store) CreateUser(_ context.Context, nu store.NewUser) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msgs []string
	msgs = append(msgs, s.checkUser(store.User{UserName: nu.UserName})...)
	msgs = append(msgs, s.policy.Check(nu.Password)...)
	if len(msgs) > 0 {
		return nil, store.Failures(msgs...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := store.User{ID: uuid.New().String(), UserName: nu.UserName, Email: nu.Email}
	s.users[u.ID] = &userRecord{user: u, normalized: store.Normalize(nu.UserName), passwordHash: hash}
	return &u, nil
}

// ValidateUser checks the user name rules and uniqueness
func (s *Store) ValidateUser(_ context.Context, user store.User) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if msgs := s.checkUser(user); len(msgs) > 0 {
		return store.Failures(msgs...)
	}
	return nil
}

// ValidatePassword checks a password against the password policy
func (s *Store) ValidatePassword(_ context.Context, password string) error {
	if msgs := s.policy.Check(password); len(msgs) > 0 {
		return store.Failures(msgs...)
	}
	return nil
}

// UpdateUser validates and stores new values for a user
func (s *Store) UpdateUser(_ context.Context, update store.UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[update.ID]
	if !ok {
		return store.ErrUserNotFound
	}

	msgs := s.checkUser(store.User{ID: update.ID, UserName: update.UserName})
	if update.Password != "" {
		msgs = append(msgs, s.policy.Check(update.Password)...)
	}
	if len(msgs) > 0 {
		return store.Failures(msgs...)
	}

	if update.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		rec.passwordHash = hash
	}
	rec.user.UserName = update.UserName
	rec.user.Email = update.Email
	rec.normalized = store.Normalize(update.UserName)
	return nil
}

// DeleteUser deletes a user and its memberships
func (s *Store) DeleteUser(_ context.Context, user store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, user.ID)
	for _, rec := range s.roles {
		delete(rec.members, user.ID)
	}
	return nil
}

// CheckPassword reports whether password matches the user's hash
func (s *Store) CheckPassword(_ context.Context, user store.User, password string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[user.ID]
	if !ok || rec.passwordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)) == nil
}

// SaveMessage records a log message for the log viewer
func (s *Store) SaveMessage(_ context.Context, msg audit.Message) error {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, store.LogEntry{
		Level:     audit.Severity(msg.Severity).String(),
		Message:   msg.Message,
		Timestamp: ts,
	})
	return nil
}

// FetchLogs returns at most limit entries, most recent first
func (s *Store) FetchLogs(_ context.Context, limit int) ([]store.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := slices.Clone(s.logs)
	slices.SortStableFunc(entries, func(a, b store.LogEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []store.LogEntry{}
	}
	return entries, nil
}

// CheckConnectivity always succeeds
func (s *Store) CheckConnectivity(_ context.Context) error {
	return nil
}

// checkUser must be called with the lock held
func (s *Store) checkUser(user store.User) []string {
	if msgs := store.CheckUserName(user.UserName); msgs != nil {
		return msgs
	}
	if other := s.userByName(user.UserName); other != nil && other.user.ID != user.ID {
		return []string{store.UserNameTaken(user.UserName)}
	}
	return nil
}

// userByName and roleByName prefer the lowest id when seeded records
// collide after normalization, so lookups agree with listing order.
func (s *Store) userByName(name string) *userRecord {
	normalized := store.Normalize(name)
	var found *userRecord
	for _, rec := range s.users {
		if rec.normalized == normalized && (found == nil || rec.user.ID < found.user.ID) {
			found = rec
		}
	}
	return found
}

func (s *Store) roleByName(name string) *roleRecord {
	normalized := store.Normalize(name)
	var found *roleRecord
	for _, rec := range s.roles {
		if rec.normalized == normalized && (found == nil || rec.role.ID < found.role.ID) {
			found = rec
		}
	}
	return found
}

// Stores returns s as every store the server needs
func (s *Store) Stores() store.Stores {
	return store.Stores{Membership: s, Users: s, Logs: s, Health: s}
}
