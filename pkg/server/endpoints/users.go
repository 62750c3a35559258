package endpoints

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/identity"
	"github.com/doodlesbykumbi/idm-admin/pkg/logging"
	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

const userNotFound = "User Not Found"

// UserForm is the body of user create, register and update requests
type UserForm struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// RegisterUsersEndpoints registers the user administration endpoints
func RegisterUsersEndpoints(s *server.Server) {
	us := s.UsersStore
	ms := s.MembershipStore
	logger := s.Logger
	cfg := s.Config

	usersRouter := s.Router.PathPrefix("/users").Subrouter()
	usersRouter.Use(s.AdminAuth.Middleware)

	usersRouter.HandleFunc("", handleListUsers(us, logger)).Methods("GET")
	usersRouter.HandleFunc("", handleCreateUser(us, ms, cfg, logger)).Methods("POST")
	usersRouter.HandleFunc("/{id}", handleShowUser(us, logger)).Methods("GET")
	usersRouter.HandleFunc("/{id}", handleUpdateUser(us, logger)).Methods("PUT")
	usersRouter.HandleFunc("/{id}", handleDeleteUser(us, logger)).Methods("DELETE")
}

func handleListUsers(us store.UsersStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := us.ListUsers(r.Context())
		if err != nil {
			logger.Error("failed to list users", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to list users")
			return
		}
		respondWithJSON(w, http.StatusOK, users)
	}
}

// handleCreateUser creates a user and adds it to the default role. A failed
// role assignment is logged but does not fail the request.
func handleCreateUser(us store.UsersStore, ms store.MembershipStore, cfg *config.IDMConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form UserForm
		if err := decodeJSON(r, &form); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := identity.FromContext(r.Context())
		user, ok := createUser(w, r, us, logger, form, "create")
		if !ok {
			return
		}

		err := ms.AddToRole(r.Context(), *user, cfg.DefaultUserRole)
		if err != nil {
			for _, msg := range faultMessages(err) {
				logger.Error("failed to add user to default role",
					zap.String("user", user.UserName),
					zap.String("role", cfg.DefaultUserRole),
					zap.String("error", msg))
			}
		}
		audit.Log(audit.MembershipEvent{
			UserID:       id.Login,
			ClientIP:     id.ClientIP(),
			Operation:    "add",
			RoleName:     cfg.DefaultUserRole,
			Member:       user.UserName,
			Success:      err == nil,
			ErrorMessage: errorText(err),
		})

		logger.Info("user created", zap.String("user", user.UserName), zap.String("email", logging.MaskEmail(user.Email)))
		respondWithJSON(w, http.StatusCreated, user)
	}
}

// createUser runs the shared create path of the admin and self-registration
// endpoints. It writes the error response itself and reports whether the
// user was created.
func createUser(w http.ResponseWriter, r *http.Request, us store.UsersStore, logger *zap.Logger, form UserForm, operation string) (*store.User, bool) {
	id := identity.FromContext(r.Context())
	user, err := us.CreateUser(r.Context(), store.NewUser{
		UserName: form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	audit.Log(audit.UserEvent{
		UserID:       id.Login,
		ClientIP:     id.ClientIP(),
		Operation:    operation,
		Subject:      form.Name,
		Success:      err == nil,
		ErrorMessage: errorText(err),
	})
	if err != nil {
		if _, ok := store.AsValidation(err); ok {
			for _, msg := range faultMessages(err) {
				logger.Error("user rejected", zap.String("user", form.Name), zap.String("error", msg))
			}
			respondWithJSON(w, http.StatusUnprocessableEntity, UserForm{
				Name:   form.Name,
				Email:  form.Email,
				Errors: faultMessages(err),
			})
			return nil, false
		}
		logger.Error("failed to create user", zap.String("user", form.Name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to create user")
		return nil, false
	}
	return user, true
}

func handleShowUser(us store.UsersStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["id"]
		user, err := us.FindUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondWithErrors(w, http.StatusNotFound, userNotFound)
				return
			}
			logger.Error("failed to find user", zap.String("id", userID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to find user")
			return
		}
		respondWithJSON(w, http.StatusOK, UserForm{ID: user.ID, Name: user.UserName, Email: user.Email})
	}
}

// handleUpdateUser requires name, email and password. Nothing is stored
// unless every check passes.
func handleUpdateUser(us store.UsersStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form UserForm
		if err := decodeJSON(r, &form); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		form.ID = mux.Vars(r)["id"]
		password := form.Password
		form.Password = ""

		if _, err := us.FindUser(r.Context(), form.ID); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondWithErrors(w, http.StatusNotFound, userNotFound)
				return
			}
			logger.Error("failed to find user", zap.String("id", form.ID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to find user")
			return
		}

		var errs membership.Errors
		if form.Name == "" {
			errs.Add("Name cannot be empty")
		}
		if form.Email == "" {
			errs.Add("Email cannot be empty")
		}
		if password == "" {
			errs.Add("Password cannot be empty")
		}
		if !errs.IsEmpty() {
			form.Errors = errs.Messages()
			respondWithJSON(w, http.StatusUnprocessableEntity, form)
			return
		}

		id := identity.FromContext(r.Context())
		err := us.UpdateUser(r.Context(), store.UserUpdate{
			ID:       form.ID,
			UserName: form.Name,
			Email:    form.Email,
			Password: password,
		})
		audit.Log(audit.UserEvent{
			UserID:       id.Login,
			ClientIP:     id.ClientIP(),
			Operation:    "update",
			Subject:      form.Name,
			Success:      err == nil,
			ErrorMessage: errorText(err),
		})
		if err != nil {
			switch {
			case errors.Is(err, store.ErrUserNotFound):
				respondWithErrors(w, http.StatusNotFound, userNotFound)
			case errs.AddError(err):
				for _, msg := range errs.Messages() {
					logger.Error("user rejected", zap.String("user", form.Name), zap.String("error", msg))
				}
				form.Errors = errs.Messages()
				respondWithJSON(w, http.StatusUnprocessableEntity, form)
			default:
				logger.Error("failed to update user", zap.String("id", form.ID), zap.Error(err))
				respondWithError(w, http.StatusInternalServerError, "failed to update user")
			}
			return
		}

		logger.Info("user updated", zap.String("user", form.Name))
		respondWithJSON(w, http.StatusOK, form)
	}
}

func handleDeleteUser(us store.UsersStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["id"]
		id := identity.FromContext(r.Context())

		user, err := us.FindUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondWithErrors(w, http.StatusNotFound, userNotFound)
				return
			}
			logger.Error("failed to find user", zap.String("id", userID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to find user")
			return
		}

		err = us.DeleteUser(r.Context(), *user)
		if errors.Is(err, store.ErrUserNotFound) {
			respondWithErrors(w, http.StatusNotFound, userNotFound)
			return
		}

		audit.Log(audit.UserEvent{
			UserID:       id.Login,
			ClientIP:     id.ClientIP(),
			Operation:    "delete",
			Subject:      user.UserName,
			Success:      err == nil,
			ErrorMessage: errorText(err),
		})
		if err != nil {
			if _, ok := store.AsValidation(err); ok {
				respondWithErrors(w, http.StatusUnprocessableEntity, faultMessages(err)...)
				return
			}
			logger.Error("failed to delete user", zap.String("id", userID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to delete user")
			return
		}

		logger.Info("user deleted", zap.String("user", user.UserName))
		w.WriteHeader(http.StatusNoContent)
	}
}
