package model

import "time"

// Ids of the roles seeded by the initial migrations
const (
	AdminRoleID = "00000000-0000-0000-0000-000000000001"
	UserRoleID  = "00000000-0000-0000-0000-000000000002"
)

// Role represents a named authorization group
type Role struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	NormalizedName string    `gorm:"column:normalized_name;uniqueIndex;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Role) TableName() string {
	return "roles"
}
