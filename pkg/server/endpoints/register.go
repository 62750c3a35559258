package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/middleware"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// RegisterRegistrationEndpoint registers self-registration, which needs no
// token and assigns no role
func RegisterRegistrationEndpoint(s *server.Server) {
	s.Router.Handle("/register", middleware.Anonymous(handleRegister(s.UsersStore, s.Logger))).Methods("POST")
}

func handleRegister(us store.UsersStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form UserForm
		if err := decodeJSON(r, &form); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, ok := createUser(w, r, us, logger, form, "register")
		if !ok {
			return
		}

		logger.Info("user registered", zap.String("user", user.UserName))
		respondWithJSON(w, http.StatusCreated, user)
	}
}
