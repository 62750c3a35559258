package store

import (
	"context"
	"time"
)

// LogEntry is a single log message shown by the log viewer
type LogEntry struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// LogsStore abstracts access to persisted log messages
type LogsStore interface {
	// FetchLogs returns at most limit entries, most recent first
	FetchLogs(ctx context.Context, limit int) ([]LogEntry, error)
}
