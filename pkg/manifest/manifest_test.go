package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store/memory"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Manifest
		wantErr string
	}{
		{
			name: "roles and members",
			input: `
roles:
  - name: Editors
    members: [alice, carol]
  - name: Auditors
`,
			want: &Manifest{Roles: []RoleSpec{
				{Name: "Editors", Members: []string{"alice", "carol"}},
				{Name: "Auditors"},
			}},
		},
		{
			name:  "empty document",
			input: "",
			want:  &Manifest{},
		},
		{
			name:    "unknown field",
			input:   "roles:\n  - name: Editors\n    users: [alice]\n",
			wantErr: "failed to parse manifest",
		},
		{
			name:    "blank name",
			input:   "roles:\n  - name: ' '\n",
			wantErr: "roles[0]: name is required",
		},
		{
			name:    "duplicate ignoring case",
			input:   "roles:\n  - name: Editors\n  - name: EDITORS\n",
			wantErr: "roles[1]: role EDITORS is listed more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  - name: Editors\n    members: [alice]\n"), 0o600))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []RoleSpec{{Name: "Editors", Members: []string{"alice"}}}, m.Roles)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func newStore(t *testing.T) *memory.Store {
	t.Helper()

	s := memory.New()
	s.SeedRole("r1", "Editors")
	alice := s.SeedUser("u1", "alice", "")
	s.SeedUser("u2", "bob", "")
	s.SeedUser("u3", "carol", "")
	require.NoError(t, s.AddToRole(context.Background(), alice, "Editors"))
	return s
}

func members(t *testing.T, s *memory.Store, role string) []string {
	t.Helper()

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	in, _, err := membership.Partition(context.Background(), users, role, s.IsMember)
	require.NoError(t, err)

	names := make([]string, 0, len(in))
	for _, u := range in {
		names = append(names, u.UserName)
	}
	return names
}

func TestApply(t *testing.T) {
	s := newStore(t)
	m := &Manifest{Roles: []RoleSpec{
		{Name: "editors", Members: []string{"Bob", "carol"}},
		{Name: "Auditors", Members: []string{"alice"}},
	}}

	var changes []membership.Change
	report, err := Apply(context.Background(), s, m, WithObserver(func(c membership.Change) {
		changes = append(changes, c)
	}))
	require.NoError(t, err)
	assert.True(t, report.Succeeded())

	assert.Equal(t, []RoleReport{
		{Role: "editors", Added: []string{"bob", "carol"}, Removed: []string{"alice"}, Result: membership.Result{Succeeded: true}},
		{Role: "Auditors", Created: true, Added: []string{"alice"}, Removed: []string{}, Result: membership.Result{Succeeded: true}},
	}, report.Roles)

	assert.Equal(t, []string{"bob", "carol"}, members(t, s, "Editors"))
	assert.Equal(t, []string{"alice"}, members(t, s, "Auditors"))
	assert.Len(t, changes, 4)
}

func TestApply_Idempotent(t *testing.T) {
	s := newStore(t)
	m := &Manifest{Roles: []RoleSpec{{Name: "Editors", Members: []string{"alice"}}}}

	report, err := Apply(context.Background(), s, m)
	require.NoError(t, err)
	assert.Equal(t, []RoleReport{
		{Role: "Editors", Added: []string{}, Removed: []string{}, Result: membership.Result{Succeeded: true}},
	}, report.Roles)
}

func TestApply_UnknownUser(t *testing.T) {
	s := newStore(t)
	m := &Manifest{Roles: []RoleSpec{{Name: "Editors", Members: []string{"alice", "mallory"}}}}

	report, err := Apply(context.Background(), s, m)
	require.NoError(t, err)
	assert.False(t, report.Succeeded())
	assert.Equal(t, []string{"User mallory does not exist."}, report.Roles[0].Result.Errors)
	assert.Equal(t, []string{"alice"}, members(t, s, "Editors"))
}

func TestApply_DryRun(t *testing.T) {
	s := newStore(t)
	m := &Manifest{Roles: []RoleSpec{
		{Name: "Editors", Members: []string{"bob"}},
		{Name: "Auditors", Members: []string{"carol"}},
	}}

	report, err := Apply(context.Background(), s, m, WithDryRun())
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, []string{"bob"}, report.Roles[0].Added)
	assert.Equal(t, []string{"alice"}, report.Roles[0].Removed)
	assert.True(t, report.Roles[1].Created)
	assert.Equal(t, []string{"carol"}, report.Roles[1].Added)

	assert.Equal(t, []string{"alice"}, members(t, s, "Editors"))
	roles, err := s.ListRoles(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

type failingStore struct {
	*memory.Store
}

func (failingStore) ListRoles(context.Context) ([]store.Role, error) {
	return nil, errors.New("connection reset")
}

func TestApply_StoreFault(t *testing.T) {
	s := failingStore{Store: newStore(t)}

	_, err := Apply(context.Background(), s, &Manifest{Roles: []RoleSpec{{Name: "Editors"}}})
	assert.ErrorContains(t, err, "failed to list roles: connection reset")
}
