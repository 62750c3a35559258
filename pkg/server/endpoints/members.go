package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/identity"
	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// MembersForm lists the users inside and outside a role
type MembersForm struct {
	RoleID     string       `json:"roleId"`
	RoleName   string       `json:"roleName"`
	Members    []store.User `json:"members"`
	NonMembers []store.User `json:"nonMembers"`
}

// MembersResponse is returned when a membership delta was not fully applied
type MembersResponse struct {
	membership.Result
	MembersForm
}

func handleShowMembers(ms store.MembershipStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := findRole(w, r, ms, logger)
		if !ok {
			return
		}

		form, err := membersForm(r, ms, *role)
		if err != nil {
			logger.Error("failed to list role members", zap.String("role", role.Name), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to list role members")
			return
		}
		respondWithJSON(w, http.StatusOK, form)
	}
}

func handleUpdateMembers(ms store.MembershipStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := findRole(w, r, ms, logger)
		if !ok {
			return
		}

		var delta membership.Delta
		if err := decodeJSON(r, &delta); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		delta.RoleID = role.ID
		if delta.RoleName == "" {
			delta.RoleName = role.Name
		}

		id := identity.FromContext(r.Context())
		result, err := membership.Reconcile(r.Context(), ms, delta, membership.WithObserver(func(c membership.Change) {
			for _, msg := range c.Rejected {
				logger.Error("membership change rejected",
					zap.String("role", c.RoleName),
					zap.String("user", c.User.UserName),
					zap.String("error", msg))
			}
			audit.Log(audit.MembershipEvent{
				UserID:       id.Login,
				ClientIP:     id.ClientIP(),
				Operation:    string(c.Operation),
				RoleName:     c.RoleName,
				Member:       c.User.UserName,
				Success:      len(c.Rejected) == 0,
				ErrorMessage: joinMessages(c.Rejected),
			})
		}))
		if err != nil {
			logger.Error("failed to reconcile role members", zap.String("role", delta.RoleName), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to update role members")
			return
		}

		if result.Succeeded {
			respondWithJSON(w, http.StatusOK, result)
			return
		}

		form, err := membersForm(r, ms, *role)
		if err != nil {
			logger.Error("failed to list role members", zap.String("role", role.Name), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to list role members")
			return
		}
		respondWithJSON(w, http.StatusUnprocessableEntity, MembersResponse{Result: result, MembersForm: form})
	}
}

func membersForm(r *http.Request, ms store.MembershipStore, role store.Role) (MembersForm, error) {
	users, err := ms.ListUsers(r.Context())
	if err != nil {
		return MembersForm{}, err
	}
	members, nonMembers, err := membership.Partition(r.Context(), users, role.Name, ms.IsMember)
	if err != nil {
		return MembersForm{}, err
	}
	return MembersForm{
		RoleID:     role.ID,
		RoleName:   role.Name,
		Members:    members,
		NonMembers: nonMembers,
	}, nil
}

func joinMessages(messages []string) string {
	var errs membership.Errors
	errs.AddAll(messages...)
	return errs.Join("; ")
}
