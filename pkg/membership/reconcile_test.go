package membership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

var (
	alice = store.User{ID: "u1", UserName: "alice"}
	bob   = store.User{ID: "u2", UserName: "bob"}
)

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	tests := []struct {
		name       string
		delta      Delta
		mockFunc   func(m *MockMembershipStore)
		wantResult Result
		wantErr    error
	}{
		{
			name:  "clean add",
			delta: Delta{RoleName: "Editors", AddIDs: []string{"u1"}},
			mockFunc: func(m *MockMembershipStore) {
				m.On("FindUser", ctx, "u1").Return(&alice, nil)
				m.On("AddToRole", ctx, alice, "Editors").Return(nil)
			},
			wantResult: Result{Succeeded: true},
		},
		{
			name:  "partial failure keeps going",
			delta: Delta{RoleName: "Editors", AddIDs: []string{"u1", "u2"}},
			mockFunc: func(m *MockMembershipStore) {
				m.On("FindUser", ctx, "u1").Return(&alice, nil)
				m.On("FindUser", ctx, "u2").Return(&bob, nil)
				m.On("AddToRole", ctx, alice, "Editors").Return(nil)
				m.On("AddToRole", ctx, bob, "Editors").Return(store.Failures("User already in role 'Editors'."))
			},
			wantResult: Result{Succeeded: false, Errors: []string{"User already in role 'Editors'."}},
		},
		{
			name:  "unknown id is skipped",
			delta: Delta{RoleName: "Editors", AddIDs: []string{"ghost"}},
			mockFunc: func(m *MockMembershipStore) {
				m.On("FindUser", ctx, "ghost").Return(nil, store.ErrUserNotFound)
			},
			wantResult: Result{Succeeded: true},
		},
		{
			name:       "empty delta",
			delta:      Delta{RoleName: "Editors"},
			mockFunc:   func(m *MockMembershipStore) {},
			wantResult: Result{Succeeded: true},
		},
		{
			name:  "add then remove, messages in order",
			delta: Delta{RoleName: "Editors", AddIDs: []string{"u1"}, RemoveIDs: []string{"u2"}},
			mockFunc: func(m *MockMembershipStore) {
				m.On("FindUser", ctx, "u1").Return(&alice, nil)
				m.On("FindUser", ctx, "u2").Return(&bob, nil)
				m.On("AddToRole", ctx, alice, "Editors").Return(store.Failures("first"))
				m.On("RemoveFromRole", ctx, bob, "Editors").Return(store.Failures("second"))
			},
			wantResult: Result{Succeeded: false, Errors: []string{"first", "second"}},
		},
		{
			name:  "duplicate ids are applied once",
			delta: Delta{RoleName: "Editors", AddIDs: []string{"u1", "u1"}},
			mockFunc: func(m *MockMembershipStore) {
				m.On("FindUser", ctx, "u1").Return(&alice, nil).Once()
				m.On("AddToRole", ctx, alice, "Editors").Return(nil).Once()
			},
			wantResult: Result{Succeeded: true},
		},
		{
			name:  "unexpected store error aborts",
			delta: Delta{RoleName: "Editors", AddIDs: []string{"u1", "u2"}, RemoveIDs: []string{"u2"}},
			mockFunc: func(m *MockMembershipStore) {
				m.On("FindUser", ctx, "u1").Return(&alice, nil)
				m.On("AddToRole", ctx, alice, "Editors").Return(dbErr)
			},
			wantResult: Result{Succeeded: true},
			wantErr:    dbErr,
		},
		{
			name:  "lookup failure aborts",
			delta: Delta{RoleName: "Editors", RemoveIDs: []string{"u1"}},
			mockFunc: func(m *MockMembershipStore) {
				m.On("FindUser", ctx, "u1").Return(nil, dbErr)
			},
			wantResult: Result{Succeeded: true},
			wantErr:    dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockMembershipStore{}
			tt.mockFunc(m)

			res, err := Reconcile(ctx, m, tt.delta)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantResult, res)
			m.AssertExpectations(t)
		})
	}
}

func TestReconcile_AbortKeepsEarlierChanges(t *testing.T) {
	ctx := context.Background()
	m := &MockMembershipStore{}
	m.On("FindUser", ctx, "u1").Return(&alice, nil)
	m.On("FindUser", ctx, "u2").Return(&bob, nil)
	m.On("AddToRole", ctx, alice, "Editors").Return(nil)
	m.On("AddToRole", ctx, bob, "Editors").Return(errors.New("boom"))

	_, err := Reconcile(ctx, m, Delta{RoleName: "Editors", AddIDs: []string{"u1", "u2"}, RemoveIDs: []string{"u1"}})
	require.Error(t, err)

	m.AssertCalled(t, "AddToRole", ctx, alice, "Editors")
	m.AssertNotCalled(t, "RemoveFromRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_Observer(t *testing.T) {
	ctx := context.Background()
	m := &MockMembershipStore{}
	m.On("FindUser", ctx, "u1").Return(&alice, nil)
	m.On("FindUser", ctx, "u2").Return(&bob, nil)
	m.On("FindUser", ctx, "ghost").Return(nil, store.ErrUserNotFound)
	m.On("AddToRole", ctx, alice, "Editors").Return(nil)
	m.On("RemoveFromRole", ctx, bob, "Editors").Return(store.Failures("User is not in role 'Editors'."))

	var changes []Change
	_, err := Reconcile(ctx, m,
		Delta{RoleName: "Editors", AddIDs: []string{"u1", "ghost"}, RemoveIDs: []string{"u2"}},
		WithObserver(func(c Change) { changes = append(changes, c) }),
	)
	require.NoError(t, err)

	require.Len(t, changes, 2)
	assert.Equal(t, Change{Operation: OperationAdd, User: alice, RoleName: "Editors"}, changes[0])
	assert.Equal(t, OperationRemove, changes[1].Operation)
	assert.Equal(t, []string{"User is not in role 'Editors'."}, changes[1].Rejected)
}

func TestReconcile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &MockMembershipStore{}
	_, err := Reconcile(ctx, m, Delta{RoleName: "Editors", AddIDs: []string{"u1"}})
	assert.ErrorIs(t, err, context.Canceled)
	m.AssertNotCalled(t, "FindUser", mock.Anything, mock.Anything)
}
