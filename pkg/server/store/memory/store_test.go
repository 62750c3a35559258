package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	verr, ok := store.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return verr.Messages
}

func TestMembership(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := s.SeedUser("u1", "alice", "alice@example.com")
	s.SeedRole("r1", "Editors")

	ok, err := s.IsMember(ctx, alice, "Editors")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.AddToRole(ctx, alice, "editors"))

	ok, err = s.IsMember(ctx, alice, "Editors")
	require.NoError(t, err)
	assert.True(t, ok)

	err = s.AddToRole(ctx, alice, "Editors")
	assert.Equal(t, []string{"User already in role 'Editors'."}, validationMessages(t, err))

	require.NoError(t, s.RemoveFromRole(ctx, alice, "Editors"))

	err = s.RemoveFromRole(ctx, alice, "Editors")
	assert.Equal(t, []string{"User is not in role 'Editors'."}, validationMessages(t, err))

	err = s.AddToRole(ctx, alice, "Ghosts")
	assert.Equal(t, []string{"Role Ghosts does not exist."}, validationMessages(t, err))

	ok, err = s.IsMember(ctx, alice, "Ghosts")
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.AddToRole(ctx, store.User{ID: "missing"}, "Editors")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSeededNameCollisionResolvesToLowestID(t *testing.T) {
	ctx := context.Background()
	for range 20 {
		s := New()
		s.SeedRole("r2", "Editors")
		s.SeedRole("r1", "editors")
		s.SeedUser("u2", "Alice", "")
		alice := s.SeedUser("u1", "alice", "")

		require.NoError(t, s.AddToRole(ctx, alice, "EDITORS"))
		assert.Contains(t, s.roles["r1"].members, "u1")
		assert.Empty(t, s.roles["r2"].members)

		u, err := s.FindUserByName(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	}
}

func TestRoles(t *testing.T) {
	ctx := context.Background()
	s := New()

	editors, err := s.CreateRole(ctx, "Editors")
	require.NoError(t, err)
	_, err = s.CreateRole(ctx, "Admin")
	require.NoError(t, err)

	_, err = s.CreateRole(ctx, "EDITORS")
	assert.Equal(t, []string{"Role name 'EDITORS' is already taken."}, validationMessages(t, err))

	_, err = s.CreateRole(ctx, "")
	assert.Equal(t, []string{"Role name '' is invalid."}, validationMessages(t, err))

	roles, err := s.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Admin", roles[0].Name)
	assert.Equal(t, "Editors", roles[1].Name)

	err = s.RenameRole(ctx, *editors, "Admin")
	assert.Equal(t, []string{"Role name 'Admin' is already taken."}, validationMessages(t, err))

	require.NoError(t, s.RenameRole(ctx, *editors, "Writers"))
	found, err := s.FindRole(ctx, editors.ID)
	require.NoError(t, err)
	assert.Equal(t, "Writers", found.Name)

	// renaming to the same name with different case is allowed
	require.NoError(t, s.RenameRole(ctx, *editors, "WRITERS"))

	require.NoError(t, s.DeleteRole(ctx, *editors))
	_, err = s.FindRole(ctx, editors.ID)
	assert.ErrorIs(t, err, store.ErrRoleNotFound)
	assert.ErrorIs(t, s.DeleteRole(ctx, *editors), store.ErrRoleNotFound)
	assert.ErrorIs(t, s.RenameRole(ctx, *editors, "Other"), store.ErrRoleNotFound)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := New()

	u, err := s.CreateUser(ctx, store.NewUser{UserName: "alice", Email: "alice@example.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.True(t, s.CheckPassword(ctx, *u, "Secret1!"))
	assert.False(t, s.CheckPassword(ctx, *u, "wrong"))

	_, err = s.CreateUser(ctx, store.NewUser{UserName: "ALICE", Password: "abc"})
	assert.Equal(t, []string{
		"Username 'ALICE' is already taken.",
		"Passwords must be at least 6 characters.",
		"Passwords must have at least one non alphanumeric character.",
		"Passwords must have at least one digit ('0'-'9').",
		"Passwords must have at least one uppercase ('A'-'Z').",
	}, validationMessages(t, err))

	found, err := s.FindUserByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = s.FindUserByName(ctx, "bob")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	bob, err := s.CreateUser(ctx, store.NewUser{UserName: "bob", Password: "Secret1!"})
	require.NoError(t, err)

	assert.NoError(t, s.ValidateUser(ctx, *bob))
	err = s.ValidateUser(ctx, store.User{ID: bob.ID, UserName: "alice"})
	assert.Equal(t, []string{"Username 'alice' is already taken."}, validationMessages(t, err))

	require.NoError(t, s.UpdateUser(ctx, store.UserUpdate{ID: bob.ID, UserName: "robert", Email: "r@example.com", Password: "Other2?"}))
	updated, err := s.FindUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "robert", updated.UserName)
	assert.Equal(t, "r@example.com", updated.Email)
	assert.True(t, s.CheckPassword(ctx, *updated, "Other2?"))

	// empty password keeps the hash
	require.NoError(t, s.UpdateUser(ctx, store.UserUpdate{ID: bob.ID, UserName: "robert"}))
	assert.True(t, s.CheckPassword(ctx, *updated, "Other2?"))

	assert.ErrorIs(t, s.UpdateUser(ctx, store.UserUpdate{ID: "missing", UserName: "x"}), store.ErrUserNotFound)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].UserName)
	assert.Equal(t, "robert", users[1].UserName)
}

func TestDeleteUserRemovesMemberships(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := s.SeedUser("u1", "alice", "")
	s.SeedRole("r1", "Editors")
	require.NoError(t, s.AddToRole(ctx, alice, "Editors"))

	require.NoError(t, s.DeleteUser(ctx, alice))
	assert.ErrorIs(t, s.DeleteUser(ctx, alice), store.ErrUserNotFound)

	// re-seeding the same id starts with no memberships
	alice = s.SeedUser("u1", "alice", "")
	ok, err := s.IsMember(ctx, alice, "Editors")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordPolicyOption(t *testing.T) {
	s := New(WithPasswordPolicy(store.PasswordPolicy{RequiredLength: 3}))
	assert.NoError(t, s.ValidatePassword(context.Background(), "abc"))
	assert.Error(t, s.ValidatePassword(context.Background(), "ab"))
}

func TestLogs(t *testing.T) {
	ctx := context.Background()
	s := New()

	entries, err := s.FetchLogs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveMessage(ctx, audit.Message{
			Severity:  int(audit.SeverityWarning),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Message:   string(rune('a' + i)),
		}))
	}

	entries, err = s.FetchLogs(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "e", entries[0].Message)
	assert.Equal(t, "c", entries[2].Message)
	assert.Equal(t, "warning", entries[0].Level)

	assert.NoError(t, s.CheckConnectivity(ctx))
}
