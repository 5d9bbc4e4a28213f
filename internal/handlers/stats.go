package handlers

import (
	"context"
	"net/http"
	"time"
)

// RoomStats represents stats for a single live room.
type RoomStats struct {
	Name         string `json:"name"`
	Occupants    int    `json:"occupants"`
	StoredEvents int64  `json:"stored_events"`
}

// StatsResponse represents the response from the stats endpoint.
type StatsResponse struct {
	LiveRooms    int         `json:"live_rooms"`
	LiveSessions int         `json:"live_sessions"`
	Rooms        []RoomStats `json:"rooms"`
}

// Stats returns a snapshot of the relay: live rooms, connected sessions,
// and the durable event count behind each live room. The session total is
// summed from the same room snapshot, so it always matches the per-room
// occupant counts in the response. Store failures leave the count at zero
// rather than failing the whole snapshot.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	live := h.registry.Rooms()

	sessions := 0
	rooms := make([]RoomStats, 0, len(live))
	for _, info := range live {
		sessions += info.Occupants
		stored, err := h.history.Count(ctx, info.Name)
		if err != nil {
			stored = 0
		}
		rooms = append(rooms, RoomStats{
			Name:         info.Name,
			Occupants:    info.Occupants,
			StoredEvents: stored,
		})
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		LiveRooms:    len(live),
		LiveSessions: sessions,
		Rooms:        rooms,
	})
}
