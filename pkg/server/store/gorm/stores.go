package gorm

import (
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// NewStores wires the GORM implementation of every store over db
func NewStores(db *gorm.DB, policy store.PasswordPolicy) store.Stores {
	return store.Stores{
		Membership: NewMembershipStore(db),
		Users:      NewUsersStore(db, policy),
		Logs:       NewLogsStore(db),
		Health:     NewHealthStore(db),
	}
}
