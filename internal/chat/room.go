package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parley-chat/parley/internal/metrics"
	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/store"
)

// hydrateTimeout bounds the synchronous store read performed inside a
// room's exclusive-access window.
const hydrateTimeout = 3 * time.Second

// Room holds one chat room's live sessions and its bounded cache of recent
// events. Every method must be called with the owning Registry's lock held;
// the Registry is the only place rooms are reachable from.
type Room struct {
	name     string
	clients  map[uuid.UUID]*Session
	cache    []models.ServerMessage
	cacheCap int

	// hydrated is set after the first successful store read and stays set
	// for the room's lifetime. A failed read leaves it false so the next
	// hydrate-triggering event may retry while the cache is still empty.
	hydrated bool
}

func newRoom(name string, cacheCap int) *Room {
	return &Room{
		name:     name,
		clients:  make(map[uuid.UUID]*Session),
		cacheCap: cacheCap,
	}
}

// Name returns the room's external key.
func (r *Room) Name() string { return r.name }

// Occupants returns the number of live sessions.
func (r *Room) Occupants() int { return len(r.clients) }

func (r *Room) add(s *Session) {
	r.clients[s.ID] = s
}

func (r *Room) remove(id uuid.UUID) (*Session, bool) {
	s, ok := r.clients[id]
	if ok {
		delete(r.clients, id)
	}
	return s, ok
}

func (r *Room) empty() bool {
	return len(r.clients) == 0
}

// appendCache adds an event to the cache, evicting the oldest entry when
// the cache is at capacity.
func (r *Room) appendCache(event models.ServerMessage) {
	r.cache = append(r.cache, event)
	if len(r.cache) > r.cacheCap {
		r.cache = r.cache[1:]
	}
}

// hydrate lazily populates the cache from the history store. It runs at
// most once per room lifetime on success, and only while the cache is still
// empty: once live broadcasts have populated the cache, the store's older
// view must not replace them. A store failure is non-fatal and leaves the
// room on its current cache.
func (r *Room) hydrate(ctx context.Context, history store.HistoryStore, log zerolog.Logger) {
	if r.hydrated || len(r.cache) > 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, hydrateTimeout)
	defer cancel()

	events, err := history.LoadRecent(ctx, r.name, r.cacheCap)
	if err != nil {
		metrics.HydrateFailures.Inc()
		log.Warn().Err(err).Str("room", r.name).Msg("history hydrate failed, continuing with empty cache")
		return
	}

	if len(events) > r.cacheCap {
		events = events[len(events)-r.cacheCap:]
	}
	r.cache = events
	r.hydrated = true
	metrics.RoomHydrations.Inc()
	log.Debug().Str("room", r.name).Int("events", len(events)).Msg("room cache hydrated")
}

// replayTo delivers the cached events to a single session in chronological
// order using the same rendering as broadcast.
func (r *Room) replayTo(s *Session, log zerolog.Logger) {
	for _, event := range r.cache {
		if !s.deliver(event.Render()) {
			metrics.DeliveriesDropped.Inc()
			log.Debug().Str("room", r.name).Str("session", s.ID.String()).Msg("history replay dropped, send buffer full")
		}
	}
}
