package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/db"
	"github.com/doodlesbykumbi/idm-admin/pkg/logging"
	"github.com/doodlesbykumbi/idm-admin/pkg/model"
	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/endpoints"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store/memory"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the identity admin server",
	Long: `Run the identity admin server.

The server requires DATABASE_URL unless --in-memory is given, and a token
secret (token_secret in idm.yml or IDM_TOKEN_SECRET) to verify admin tokens.

By default, database migrations are run on startup. Use --no-migrate to skip.

Sending SIGHUP reloads the configuration and restarts the listener.`,
	Run: func(cmd *cobra.Command, args []string) {
		inMemory, _ := cmd.Flags().GetBool("in-memory")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")

		if err := runServer(inMemory, noMigrate, host, port); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("in-memory", false, "keep all data in memory instead of PostgreSQL")
}

func runServer(inMemory, noMigrate bool, host, port string) error {
	cfg := loadConfig()
	if cfg.TokenSecret == "" {
		return errors.New("token_secret is not configured")
	}

	var (
		stores store.Stores
		sink   audit.Sink
	)
	if inMemory {
		mem := memory.New(memory.WithPasswordPolicy(cfg.PasswordPolicy()))
		mem.SeedRole(model.AdminRoleID, cfg.AdminRole)
		mem.SeedRole(model.UserRoleID, cfg.DefaultUserRole)
		stores, sink = mem.Stores(), mem
	} else {
		if db.URL() == "" {
			return errors.New("DATABASE_URL environment variable is required")
		}
		if !noMigrate {
			fmt.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}

		var closeDB func()
		var err error
		stores, closeDB, err = openStores(cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		sink = audit.DefaultSink()
	}
	audit.SetSink(sink)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	for {
		logger, err := newServerLogger(cfg, sink)
		if err != nil {
			return err
		}

		s := server.NewServer(stores, cfg, logger, host, port)
		endpoints.RegisterAll(s)

		errChan := make(chan error, 1)
		go func() {
			logger.Info("running server", zap.String("address", "http://"+host+":"+port))
			errChan <- s.Start()
		}()

		select {
		case err := <-errChan:
			_ = logger.Sync()
			return err
		case sig := <-sigChan:
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			err := s.Shutdown(ctx)
			cancel()
			if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			if err != nil {
				return fmt.Errorf("failed to shut down: %w", err)
			}
			if sig != syscall.SIGHUP {
				logger.Info("server stopped")
				_ = logger.Sync()
				return nil
			}

			reloaded, err := config.Load()
			if err == nil {
				err = reloaded.Validate()
			}
			if err != nil {
				logger.Error("configuration reload failed, keeping current configuration", zap.Error(err))
			} else {
				logger.Info("configuration reloaded", zap.String("path", reloaded.ConfigFilePath()))
				cfg = reloaded
			}
			_ = logger.Sync()
		}
	}
}

// newServerLogger logs to stdout and persists entries at or above the
// configured level to sink, where the log viewer reads them
func newServerLogger(cfg *config.IDMConfig, sink audit.Sink) (*zap.Logger, error) {
	persistLevel, err := zapcore.ParseLevel(cfg.PersistLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid persist_log_level: %w", err)
	}

	opts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}
	if sink != nil {
		opts.Cores = append(opts.Cores, audit.NewCore(sink, persistLevel))
	}
	return logging.New(opts)
}
