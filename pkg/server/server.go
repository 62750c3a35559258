package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/middleware"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

type Server struct {
	Router *mux.Router
	Config *config.IDMConfig
	Logger *zap.Logger

	MembershipStore store.MembershipStore
	UsersStore      store.UsersStore
	LogsStore       store.LogsStore
	HealthStore     store.HealthStore

	AdminAuth *middleware.AdminAuthenticator

	srv *http.Server
}

func NewServer(
	stores store.Stores,
	cfg *config.IDMConfig,
	logger *zap.Logger,
	host string,
	port string,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:          router,
		Config:          cfg,
		Logger:          logger,
		MembershipStore: stores.Membership,
		UsersStore:      stores.Users,
		LogsStore:       stores.Logs,
		HealthStore:     stores.Health,
		AdminAuth:       middleware.NewAdminAuthenticator([]byte(cfg.TokenSecret), cfg.AdminRole),
		srv:             srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an already bound listener
func (s *Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
