package chat

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parley-chat/parley/internal/metrics"
	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/store"
)

// Inline notices sent to a single offending session, never broadcast.
const (
	noticeNameRequired        = "Please set a username with `/user <name>` before sending messages."
	noticeNameRequiredHistory = "Please set a username with `/user <name>` before loading history."
	noticeEmptyName           = "Username cannot be empty. Usage: /user <name>"
)

// Registry owns the map of live rooms and is the single synchronization
// boundary for all room state. One mutex guards the whole map and every
// room behind it; a caller acquires it, performs one logical operation
// (join, rename, send, history, remove) and releases it. Because there is
// only one lock there is no map-vs-room acquisition order to get wrong,
// and deleting an emptied room is atomic with removing its last session.
//
// Methods never block on the network while holding the lock: deliveries go
// through each session's buffered channel and durable writes go through the
// Persister's queue.
type Registry struct {
	log     zerolog.Logger
	history store.HistoryStore
	persist *Persister

	cacheCap int

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry. cacheCap bounds each room's
// in-memory event cache and is also the hydrate fetch limit.
func NewRegistry(log zerolog.Logger, history store.HistoryStore, persist *Persister, cacheCap int) *Registry {
	return &Registry{
		log:      log,
		history:  history,
		persist:  persist,
		cacheCap: cacheCap,
		rooms:    make(map[string]*Room),
	}
}

// Join registers a session in a room, creating the room on first join.
// The session starts anonymous. Join always succeeds.
func (reg *Registry) Join(roomName string, s *Session) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomName]
	if !ok {
		room = newRoom(roomName, reg.cacheCap)
		reg.rooms[roomName] = room
		metrics.RoomsCreated.Inc()
	}
	room.add(s)

	reg.log.Info().Str("room", roomName).Str("session", s.ID.String()).Msg("session joined room")
}

// WithRoom runs f with exclusive access to one room's state and reports
// whether the room existed. f must not call back into the Registry: the
// lock is not reentrant and a nested acquisition deadlocks.
func (reg *Registry) WithRoom(roomName string, f func(*Room)) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomName]
	if !ok {
		return false
	}
	f(room)
	return true
}

// Remove deletes a session from a room and returns the name it held and
// whether it had one. When the last session leaves, the room is deleted in
// the same critical section, so no observer can see an empty room and no
// concurrent Join can land in a room mid-deletion.
func (reg *Registry) Remove(roomName string, id uuid.UUID) (string, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomName]
	if !ok {
		return "", false
	}

	s, ok := room.remove(id)
	if !ok {
		return "", false
	}

	if room.empty() {
		delete(reg.rooms, roomName)
		reg.log.Info().Str("room", roomName).Msg("room emptied, deleting")
	}

	return s.Name(), s.Named()
}

// SetName sets or replaces a session's display name. Renaming an
// already-named session behaves the same as the first naming: the renamer
// gets a replay of the room cache (hydrating it first if cold) and everyone
// else gets a UserJoined broadcast. An empty name is answered with a notice.
func (reg *Registry) SetName(ctx context.Context, roomName string, id uuid.UUID, name string) {
	reg.mu.Lock()

	room, ok := reg.rooms[roomName]
	if !ok {
		reg.mu.Unlock()
		return
	}
	s, ok := room.clients[id]
	if !ok {
		reg.mu.Unlock()
		return
	}

	if name == "" {
		s.deliver(noticeEmptyName)
		reg.mu.Unlock()
		return
	}

	room.hydrate(ctx, reg.history, reg.log)

	s.name = name
	room.replayTo(s, reg.log)

	event := models.UserJoined(name)
	reg.broadcastLocked(room, event, &id)
	reg.mu.Unlock()

	reg.persist.Enqueue(roomName, event)
}

// SendChat broadcasts a chat message from a named session to the rest of
// the room. Anonymous senders get an inline notice instead; nothing is
// broadcast or persisted for them.
func (reg *Registry) SendChat(roomName string, id uuid.UUID, content string) {
	reg.mu.Lock()

	room, ok := reg.rooms[roomName]
	if !ok {
		reg.mu.Unlock()
		return
	}
	s, ok := room.clients[id]
	if !ok {
		reg.mu.Unlock()
		return
	}

	if !s.Named() {
		s.deliver(noticeNameRequired)
		reg.mu.Unlock()
		return
	}

	event := models.NewMessage(s.Name(), content)
	reg.broadcastLocked(room, event, &id)
	reg.mu.Unlock()

	reg.persist.Enqueue(roomName, event)
}

// History replays the room cache to one named session, hydrating the cache
// from the store if it is still cold. Other sessions and the cache itself
// are unaffected.
func (reg *Registry) History(ctx context.Context, roomName string, id uuid.UUID) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomName]
	if !ok {
		return
	}
	s, ok := room.clients[id]
	if !ok {
		return
	}

	if !s.Named() {
		s.deliver(noticeNameRequiredHistory)
		return
	}

	room.hydrate(ctx, reg.history, reg.log)
	room.replayTo(s, reg.log)
}

// Broadcast fans an event out to every current occupant of a room, minus an
// optional excluded session, and persists it. The durable append happens
// even when the room no longer exists: a departure that emptied the room
// still goes into the history the next occupant will hydrate.
func (reg *Registry) Broadcast(roomName string, event models.ServerMessage, exclude *uuid.UUID) {
	reg.mu.Lock()
	if room, ok := reg.rooms[roomName]; ok {
		reg.broadcastLocked(room, event, exclude)
	}
	reg.mu.Unlock()

	reg.persist.Enqueue(roomName, event)
}

// broadcastLocked renders the event exactly once, appends it to the room
// cache and attempts delivery to every session except the excluded one. A
// full send buffer drops that one delivery and is only logged; the owning
// read loop stays authoritative for disconnects.
func (reg *Registry) broadcastLocked(room *Room, event models.ServerMessage, exclude *uuid.UUID) {
	room.appendCache(event)
	line := event.Render()

	for id, s := range room.clients {
		if exclude != nil && id == *exclude {
			continue
		}
		if !s.deliver(line) {
			metrics.DeliveriesDropped.Inc()
			reg.log.Warn().Str("room", room.name).Str("session", id.String()).Msg("delivery dropped, send buffer full")
		}
	}

	metrics.EventsBroadcast.WithLabelValues(string(event.Type)).Inc()
}

// RoomInfo is a point-in-time view of one live room.
type RoomInfo struct {
	Name      string `json:"name"`
	Occupants int    `json:"occupants"`
	Cached    int    `json:"cached_events"`
}

// Rooms returns a snapshot of all live rooms, sorted by name.
func (reg *Registry) Rooms() []RoomInfo {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	infos := make([]RoomInfo, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		infos = append(infos, RoomInfo{
			Name:      room.name,
			Occupants: room.Occupants(),
			Cached:    len(room.cache),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
