package model

import "time"

// Message is a persisted log message in RFC5424 terms
type Message struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Facility  int       `gorm:"column:facility"`
	Severity  int       `gorm:"column:severity"`
	Timestamp time.Time `gorm:"column:timestamp"`
	Hostname  string    `gorm:"column:hostname"`
	Appname   string    `gorm:"column:appname"`
	Procid    string    `gorm:"column:procid"`
	Msgid     string    `gorm:"column:msgid"`
	Sdata     string    `gorm:"column:sdata;type:jsonb"`
	Message   string    `gorm:"column:message"`
}

func (Message) TableName() string {
	return "messages"
}
