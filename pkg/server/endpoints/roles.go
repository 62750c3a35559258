package endpoints

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/identity"
	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

const noRoleFound = "No role found"

// RoleListItem is a row of the role listing
type RoleListItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Users string `json:"users"`
}

// RoleForm is the body of role create and rename requests
type RoleForm struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Errors []string `json:"errors,omitempty"`
}

// RegisterRolesEndpoints registers the role administration endpoints
func RegisterRolesEndpoints(s *server.Server) {
	ms := s.MembershipStore
	logger := s.Logger

	rolesRouter := s.Router.PathPrefix("/roles").Subrouter()
	rolesRouter.Use(s.AdminAuth.Middleware)

	// GET /roles - List roles with their members
	rolesRouter.HandleFunc("", handleListRoles(ms, logger)).Methods("GET")

	// POST /roles - Create role
	rolesRouter.HandleFunc("", handleCreateRole(ms, logger)).Methods("POST")

	// GET /roles/{id} - Show role
	rolesRouter.HandleFunc("/{id}", handleShowRole(ms, logger)).Methods("GET")

	// PUT /roles/{id} - Rename role
	rolesRouter.HandleFunc("/{id}", handleRenameRole(ms, logger)).Methods("PUT")

	// DELETE /roles/{id} - Delete role
	rolesRouter.HandleFunc("/{id}", handleDeleteRole(ms, logger)).Methods("DELETE")

	// GET /roles/{id}/members - Members and non-members of a role
	rolesRouter.HandleFunc("/{id}/members", handleShowMembers(ms, logger)).Methods("GET")

	// POST /roles/{id}/members - Apply a membership delta
	rolesRouter.HandleFunc("/{id}/members", handleUpdateMembers(ms, logger)).Methods("POST")
}

func handleListRoles(ms store.MembershipStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		roles, err := ms.ListRoles(ctx)
		if err != nil {
			logger.Error("failed to list roles", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to list roles")
			return
		}
		users, err := ms.ListUsers(ctx)
		if err != nil {
			logger.Error("failed to list users", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to list users")
			return
		}

		summaries, err := membership.ListRoles(ctx, roles, users, ms.IsMember)
		if err != nil {
			logger.Error("failed to project role members", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to list roles")
			return
		}

		items := make([]RoleListItem, 0, len(summaries))
		for _, summary := range summaries {
			items = append(items, RoleListItem{ID: summary.ID, Name: summary.Name, Users: summary.Members()})
		}
		respondWithJSON(w, http.StatusOK, items)
	}
}

func handleCreateRole(ms store.MembershipStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form RoleForm
		if err := decodeJSON(r, &form); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := identity.FromContext(r.Context())
		role, err := ms.CreateRole(r.Context(), form.Name)
		audit.Log(audit.RoleEvent{
			UserID:       id.Login,
			ClientIP:     id.ClientIP(),
			Operation:    "create",
			RoleName:     form.Name,
			Success:      err == nil,
			ErrorMessage: errorText(err),
		})
		if err != nil {
			if _, ok := store.AsValidation(err); ok {
				form.Errors = faultMessages(err)
				respondWithJSON(w, http.StatusUnprocessableEntity, form)
				return
			}
			logger.Error("failed to create role", zap.String("role", form.Name), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to create role")
			return
		}

		respondWithJSON(w, http.StatusCreated, RoleForm{ID: role.ID, Name: role.Name})
	}
}

func handleShowRole(ms store.MembershipStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := findRole(w, r, ms, logger)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, RoleForm{ID: role.ID, Name: role.Name})
	}
}

// handleRenameRole redisplays the submitted form on any fault, including an
// unknown id or a store error.
func handleRenameRole(ms store.MembershipStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form RoleForm
		if err := decodeJSON(r, &form); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		form.ID = mux.Vars(r)["id"]

		id := identity.FromContext(r.Context())
		oldName := ""
		role, err := ms.FindRole(r.Context(), form.ID)
		if err == nil {
			oldName = role.Name
			err = ms.RenameRole(r.Context(), *role, form.Name)
		}

		audit.Log(audit.RoleEvent{
			UserID:       id.Login,
			ClientIP:     id.ClientIP(),
			Operation:    "rename",
			RoleName:     oldName,
			NewName:      form.Name,
			Success:      err == nil,
			ErrorMessage: errorText(err),
		})
		if err != nil {
			logger.Warn("failed to rename role", zap.String("id", form.ID), zap.Error(err))
			form.Errors = faultMessages(err)
			respondWithJSON(w, http.StatusUnprocessableEntity, form)
			return
		}

		respondWithJSON(w, http.StatusOK, RoleForm{ID: form.ID, Name: form.Name})
	}
}

func handleDeleteRole(ms store.MembershipStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := findRole(w, r, ms, logger)
		if !ok {
			return
		}

		id := identity.FromContext(r.Context())
		err := ms.DeleteRole(r.Context(), *role)
		audit.Log(audit.RoleEvent{
			UserID:       id.Login,
			ClientIP:     id.ClientIP(),
			Operation:    "delete",
			RoleName:     role.Name,
			Success:      err == nil,
			ErrorMessage: errorText(err),
		})
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, store.ErrRoleNotFound):
			respondWithErrors(w, http.StatusNotFound, noRoleFound)
		default:
			if _, ok := store.AsValidation(err); ok {
				respondWithErrors(w, http.StatusUnprocessableEntity, faultMessages(err)...)
				return
			}
			logger.Error("failed to delete role", zap.String("role", role.Name), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to delete role")
		}
	}
}

// findRole resolves the {id} route variable, writing the response itself
// when the role cannot be returned
func findRole(w http.ResponseWriter, r *http.Request, ms store.MembershipStore, logger *zap.Logger) (*store.Role, bool) {
	roleID := mux.Vars(r)["id"]
	role, err := ms.FindRole(r.Context(), roleID)
	if err != nil {
		if errors.Is(err, store.ErrRoleNotFound) {
			respondWithErrors(w, http.StatusNotFound, noRoleFound)
			return nil, false
		}
		logger.Error("failed to find role", zap.String("id", roleID), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to find role")
		return nil, false
	}
	return role, true
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
