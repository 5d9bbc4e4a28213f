package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/parley-chat/parley/internal/models"
)

// SQLiteStore persists room events in a local SQLite database. It is the
// zero-infrastructure default when no PostgreSQL or Redis URL is configured.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/parley.db".
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/parley.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// initSchema creates the messages table if it does not exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room, id);
	`)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Append records one event at the tail of a room's log.
func (s *SQLiteStore) Append(ctx context.Context, room string, event models.ServerMessage) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (room, message) VALUES (?, ?)
	`, room, string(data))
	return err
}

// LoadRecent returns up to limit of the newest events, oldest first.
func (s *SQLiteStore) LoadRecent(ctx context.Context, room string, limit int) ([]models.ServerMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message FROM messages
		WHERE room = ?
		ORDER BY id DESC
		LIMIT ?
	`, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReversed(rows.Next, func() ([]byte, error) {
		var data string
		err := rows.Scan(&data)
		return []byte(data), err
	}, rows.Err)
}

// LoadPage returns one page of events counting back from the newest,
// oldest first within the page.
func (s *SQLiteStore) LoadPage(ctx context.Context, room string, page, pageSize int) ([]models.ServerMessage, error) {
	offset := (page - 1) * pageSize

	rows, err := s.db.QueryContext(ctx, `
		SELECT message FROM messages
		WHERE room = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, room, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReversed(rows.Next, func() ([]byte, error) {
		var data string
		err := rows.Scan(&data)
		return []byte(data), err
	}, rows.Err)
}

// Count returns the total number of events stored for a room.
func (s *SQLiteStore) Count(ctx context.Context, room string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages WHERE room = ?
	`, room).Scan(&count)
	return count, err
}
