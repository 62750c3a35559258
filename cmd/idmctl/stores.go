package main

import (
	"fmt"
	"os"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/db"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/idm-admin/pkg/server/store/gorm"
)

// loadConfig loads and validates the configuration, exiting on failure
func loadConfig() *config.IDMConfig {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openStores connects to DATABASE_URL, wires the GORM stores and sends
// audit events to the same database. The returned func closes the
// connection.
func openStores(cfg *config.IDMConfig) (store.Stores, func(), error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return store.Stores{}, nil, err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return store.Stores{}, nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	audit.SetSink(audit.NewStoreWithDB(sqlDB))
	return gormstore.NewStores(database, cfg.PasswordPolicy()), func() { _ = sqlDB.Close() }, nil
}

// operator names the person running a command in audit events
func operator() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "idmctl"
}
