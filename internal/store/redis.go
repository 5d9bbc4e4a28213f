package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/parley-chat/parley/internal/models"
)

// RedisStore persists room events in per-room sorted sets scored by
// timestamp. Member entries carry a ULID so identical payloads never
// collapse into one sorted-set member.
type RedisStore struct {
	client *redis.Client
}

// storedEvent is the Redis member encoding: a ServerMessage plus a unique id.
type storedEvent struct {
	ID string `json:"id"`
	models.ServerMessage
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() {
	_ = s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// roomMessagesKey returns the key for a room's event sorted set.
func roomMessagesKey(room string) string {
	return fmt.Sprintf("room:%s:messages", room)
}

// Append records one event at the tail of a room's log.
func (s *RedisStore) Append(ctx context.Context, room string, event models.ServerMessage) error {
	stored := storedEvent{ID: ulid.Make().String(), ServerMessage: event}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	return s.client.ZAdd(ctx, roomMessagesKey(room), redis.Z{
		Score:  float64(time.Now().UnixMilli()),
		Member: string(data),
	}).Err()
}

// LoadRecent returns up to limit of the newest events, oldest first.
func (s *RedisStore) LoadRecent(ctx context.Context, room string, limit int) ([]models.ServerMessage, error) {
	if limit <= 0 {
		return []models.ServerMessage{}, nil
	}

	// Negative indices address the tail of the set, already chronological.
	results, err := s.client.ZRange(ctx, roomMessagesKey(room), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	return decodeMembers(results), nil
}

// LoadPage returns one page of events counting back from the newest,
// oldest first within the page.
func (s *RedisStore) LoadPage(ctx context.Context, room string, page, pageSize int) ([]models.ServerMessage, error) {
	if page < 1 || pageSize <= 0 {
		return []models.ServerMessage{}, nil
	}

	key := roomMessagesKey(room)
	total, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	end := total - int64(page-1)*int64(pageSize) - 1
	if end < 0 {
		return []models.ServerMessage{}, nil
	}
	start := end - int64(pageSize) + 1
	if start < 0 {
		start = 0
	}

	results, err := s.client.ZRange(ctx, key, start, end).Result()
	if err != nil {
		return nil, err
	}
	return decodeMembers(results), nil
}

// Count returns the total number of events stored for a room.
func (s *RedisStore) Count(ctx context.Context, room string) (int64, error) {
	return s.client.ZCard(ctx, roomMessagesKey(room)).Result()
}

// decodeMembers unmarshals sorted-set members, skipping any that fail.
func decodeMembers(results []string) []models.ServerMessage {
	events := make([]models.ServerMessage, 0, len(results))
	for _, data := range results {
		var stored storedEvent
		if err := json.Unmarshal([]byte(data), &stored); err != nil {
			continue
		}
		events = append(events, stored.ServerMessage)
	}
	return events
}
