package membership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

func membersOf(groups map[string][]string) MemberPredicate {
	return func(_ context.Context, user store.User, roleName string) (bool, error) {
		for _, name := range groups[roleName] {
			if name == user.UserName {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestListRoles(t *testing.T) {
	ctx := context.Background()
	roles := []store.Role{{ID: "r1", Name: "Admin"}, {ID: "r2", Name: "Editors"}}
	users := []store.User{{ID: "u1", UserName: "alice"}, {ID: "u2", UserName: "bob"}}

	summaries, err := ListRoles(ctx, roles, users, membersOf(map[string][]string{
		"Admin": {"bob", "alice"},
	}))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Admin", summaries[0].Name)
	assert.Equal(t, []string{"alice", "bob"}, summaries[0].MemberNames)
	assert.Equal(t, "alice, bob", summaries[0].Members())

	assert.Equal(t, "Editors", summaries[1].Name)
	assert.Empty(t, summaries[1].MemberNames)
	assert.NotNil(t, summaries[1].MemberNames)
	assert.Equal(t, "", summaries[1].Members())
}

func TestListRoles_NoRoles(t *testing.T) {
	summaries, err := ListRoles(context.Background(), nil, []store.User{{UserName: "alice"}}, membersOf(nil))
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestListRoles_PredicateError(t *testing.T) {
	failing := func(context.Context, store.User, string) (bool, error) {
		return false, errors.New("db down")
	}
	_, err := ListRoles(context.Background(),
		[]store.Role{{Name: "Admin"}},
		[]store.User{{UserName: "alice"}},
		failing,
	)
	assert.ErrorContains(t, err, "db down")
}

func TestPartition(t *testing.T) {
	users := []store.User{{UserName: "alice"}, {UserName: "bob"}, {UserName: "carol"}}
	members, nonMembers, err := Partition(context.Background(), users, "Editors", membersOf(map[string][]string{
		"Editors": {"carol", "alice"},
	}))
	require.NoError(t, err)
	assert.Equal(t, []store.User{{UserName: "alice"}, {UserName: "carol"}}, members)
	assert.Equal(t, []store.User{{UserName: "bob"}}, nonMembers)
}
