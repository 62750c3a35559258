package endpoints

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

var (
	alice = store.User{ID: "u1", UserName: "alice", Email: "alice@example.com"}
	bob   = store.User{ID: "u2", UserName: "bob", Email: "bob@example.com"}
	carol = store.User{ID: "u3", UserName: "carol", Email: "carol@example.com"}
)

func TestShowMembers(t *testing.T) {
	e := newTestEnv(t)
	seedRoles(t, e)

	w := e.do(t, "GET", "/roles/r2/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MembersForm{
		RoleID:     "r2",
		RoleName:   "Editors",
		Members:    []store.User{alice, carol},
		NonMembers: []store.User{bob},
	}, decode[MembersForm](t, w))

	w = e.do(t, "GET", "/roles/missing/members", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateMembers(t *testing.T) {
	e := newTestEnv(t)
	seedRoles(t, e)
	ctx := context.Background()

	w := e.do(t, "POST", "/roles/r2/members", membership.Delta{
		RoleName:  "Editors",
		AddIDs:    []string{"u2", "ghost"},
		RemoveIDs: []string{"u1"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, membership.Result{Succeeded: true}, decode[membership.Result](t, w))

	isBob, err := e.mem.IsMember(ctx, bob, "Editors")
	require.NoError(t, err)
	assert.True(t, isBob)
	isAlice, err := e.mem.IsMember(ctx, alice, "Editors")
	require.NoError(t, err)
	assert.False(t, isAlice)

	msgs := e.auditMessages(t)
	assert.Contains(t, msgs, "admin: add bob to role Editors")
	assert.Contains(t, msgs, "admin: remove alice from role Editors")
}

func TestUpdateMembers_RoleNameDefaultsToRole(t *testing.T) {
	e := newTestEnv(t)
	seedRoles(t, e)

	w := e.do(t, "POST", "/roles/r2/members", membership.Delta{AddIDs: []string{"u2"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ok, err := e.mem.IsMember(context.Background(), bob, "Editors")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateMembers_Rejections(t *testing.T) {
	e := newTestEnv(t)
	seedRoles(t, e)

	w := e.do(t, "POST", "/roles/r2/members", membership.Delta{
		RoleName:  "Editors",
		AddIDs:    []string{"u1", "u2"},
		RemoveIDs: []string{"u3", "u2", "u1"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	resp := decode[MembersResponse](t, w)
	assert.False(t, resp.Succeeded)
	assert.Equal(t, []string{"User already in role 'Editors'."}, resp.Errors)

	// bob was added and then removed, alice and carol removed
	assert.Equal(t, "r2", resp.RoleID)
	assert.Empty(t, resp.Members)
	assert.Equal(t, []store.User{alice, bob, carol}, resp.NonMembers)

	assert.Contains(t, e.auditMessages(t), "admin failed to add alice to role Editors: User already in role 'Editors'.")
}

func TestUpdateMembers_UnknownRoleName(t *testing.T) {
	e := newTestEnv(t)
	seedRoles(t, e)

	w := e.do(t, "POST", "/roles/r2/members", membership.Delta{
		RoleName: "Ghosts",
		AddIDs:   []string{"u2"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"Role Ghosts does not exist."}, decode[MembersResponse](t, w).Errors)
}

func TestUpdateMembers_UnexpectedFault(t *testing.T) {
	role := &store.Role{ID: "r2", Name: "Editors"}
	ms := &MockMembershipStore{}
	ms.On("FindRole", mock.Anything, "r2").Return(role, nil)
	ms.On("FindUser", mock.Anything, "u2").Return(&bob, nil)
	ms.On("AddToRole", mock.Anything, bob, "Editors").Return(errors.New("connection refused"))
	e := newMockEnv(t, store.Stores{Membership: ms})

	w := e.do(t, "POST", "/roles/r2/members", membership.Delta{AddIDs: []string{"u2", "u3"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	ms.AssertExpectations(t)
	ms.AssertNotCalled(t, "FindUser", mock.Anything, "u3")
}
