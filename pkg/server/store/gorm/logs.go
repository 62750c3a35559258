package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/model"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// Ensure LogsStore implements store.LogsStore
var _ store.LogsStore = (*LogsStore)(nil)

// LogsStore reads persisted messages using GORM
type LogsStore struct {
	db *gorm.DB
}

// NewLogsStore creates a new LogsStore
func NewLogsStore(db *gorm.DB) *LogsStore {
	return &LogsStore{db: db}
}

// FetchLogs returns at most limit entries, most recent first
func (s *LogsStore) FetchLogs(ctx context.Context, limit int) ([]store.LogEntry, error) {
	var rows []model.Message
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, severity, timestamp, message
		FROM messages
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]store.LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, store.LogEntry{
			Level:     audit.Severity(row.Severity).String(),
			Message:   row.Message,
			Timestamp: row.Timestamp,
		})
	}
	return entries, nil
}
