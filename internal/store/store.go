package store

import (
	"context"

	"github.com/parley-chat/parley/internal/models"
)

// HistoryStore is the durable append/read log for room events, keyed by room
// name. Rooms front it with a bounded in-memory cache; the store itself is
// logically unbounded. PostgresStore, SQLiteStore and RedisStore all
// implement this interface.
type HistoryStore interface {
	// Append records one event at the tail of a room's log.
	Append(ctx context.Context, room string, event models.ServerMessage) error

	// LoadRecent returns up to limit of the newest events, oldest first.
	LoadRecent(ctx context.Context, room string, limit int) ([]models.ServerMessage, error)

	// LoadPage returns one page of events counting back from the newest,
	// oldest first within the page. Page numbering starts at 1.
	LoadPage(ctx context.Context, room string, page, pageSize int) ([]models.ServerMessage, error)

	// Count returns the total number of events stored for a room.
	Count(ctx context.Context, room string) (int64, error)

	// Ping checks the backend connection.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close()
}
