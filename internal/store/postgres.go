package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parley-chat/parley/internal/models"
)

// PostgresStore persists room events in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Append records one event at the tail of a room's log.
func (s *PostgresStore) Append(ctx context.Context, room string, event models.ServerMessage) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO messages (room, message) VALUES ($1, $2)
	`, room, data)
	return err
}

// LoadRecent returns up to limit of the newest events, oldest first.
func (s *PostgresStore) LoadRecent(ctx context.Context, room string, limit int) ([]models.ServerMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT message FROM messages
		WHERE room = $1
		ORDER BY id DESC
		LIMIT $2
	`, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReversed(rows.Next, func() ([]byte, error) {
		var data []byte
		err := rows.Scan(&data)
		return data, err
	}, rows.Err)
}

// LoadPage returns one page of events counting back from the newest,
// oldest first within the page.
func (s *PostgresStore) LoadPage(ctx context.Context, room string, page, pageSize int) ([]models.ServerMessage, error) {
	offset := (page - 1) * pageSize

	rows, err := s.pool.Query(ctx, `
		SELECT message FROM messages
		WHERE room = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, room, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReversed(rows.Next, func() ([]byte, error) {
		var data []byte
		err := rows.Scan(&data)
		return data, err
	}, rows.Err)
}

// Count returns the total number of events stored for a room.
func (s *PostgresStore) Count(ctx context.Context, room string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages WHERE room = $1
	`, room).Scan(&count)
	return count, err
}

// scanReversed collects newest-first rows and flips them to chronological
// order. Rows that fail to decode are skipped.
func scanReversed(next func() bool, scan func() ([]byte, error), rowsErr func() error) ([]models.ServerMessage, error) {
	var newestFirst []models.ServerMessage
	for next() {
		data, err := scan()
		if err != nil {
			return nil, err
		}
		var event models.ServerMessage
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}
		newestFirst = append(newestFirst, event)
	}
	if err := rowsErr(); err != nil {
		return nil, err
	}

	events := make([]models.ServerMessage, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		events = append(events, newestFirst[i])
	}
	return events, nil
}
