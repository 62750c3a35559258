package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

// Store handles audit message persistence to database
type Store struct {
	db *sql.DB
}

// Message represents an audit message for database persistence
type Message struct {
	Facility  int            `json:"facility"`
	Severity  int            `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Hostname  string         `json:"hostname"`
	Appname   string         `json:"appname"`
	Procid    string         `json:"procid"`
	Msgid     string         `json:"msgid"`
	Sdata     map[string]any `json:"sdata"`
	Message   string         `json:"message"`
}

// NewStore creates a new audit store from IDM_AUDIT_DATABASE_URL
// Returns nil if IDM_AUDIT_DATABASE_URL is not set; the server then
// installs a store on its own connection with SetSink.
func NewStore() (*Store, error) {
	dbURL := os.Getenv("IDM_AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB creates a store with an existing database connection
// Useful for testing with sqlmock
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ Sink = (*Store)(nil)

// NewMessage converts an event into a message ready to be persisted
func NewMessage(event Event) Message {
	sdata := make(map[string]any, len(event.StructuredData()))
	for k, v := range event.StructuredData() {
		sdata[k] = v
	}

	return Message{
		Facility: event.Facility(),
		Severity: int(event.Severity()),
		Msgid:    event.MessageID(),
		Sdata:    sdata,
		Message:  event.Message(),
	}
}

// Save persists an audit event to the database
func (s *Store) Save(event Event) error {
	return s.SaveMessage(context.Background(), NewMessage(event))
}

// SaveMessage persists a raw message. Missing timestamp, hostname,
// appname and procid are filled in.
func (s *Store) SaveMessage(ctx context.Context, msg Message) error {
	if s.db == nil {
		return nil
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if msg.Hostname == "" {
		msg.Hostname, _ = os.Hostname()
	}
	if msg.Appname == "" {
		msg.Appname = AppName
	}
	if msg.Procid == "" {
		msg.Procid = strconv.Itoa(os.Getpid())
	}

	sdataJSON, err := json.Marshal(msg.Sdata)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		msg.Facility,
		msg.Severity,
		msg.Timestamp,
		msg.Hostname,
		msg.Appname,
		msg.Procid,
		msg.Msgid,
		sdataJSON,
		msg.Message,
	)

	return err
}

// DB returns the underlying database connection (for testing)
func (s *Store) DB() *sql.DB {
	return s.db
}
