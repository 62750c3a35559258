package model

import "time"

// User represents a login identity
type User struct {
	ID                 string    `gorm:"column:id;primaryKey"`
	UserName           string    `gorm:"column:user_name;not null"`
	NormalizedUserName string    `gorm:"column:normalized_user_name;uniqueIndex;not null"`
	Email              string    `gorm:"column:email"`
	PasswordHash       []byte    `gorm:"column:password_hash"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
