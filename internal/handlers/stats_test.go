package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/parley-chat/parley/internal/chat"
	"github.com/parley-chat/parley/internal/models"
)

func TestStatsSessionTotalMatchesOccupants(t *testing.T) {
	log := zerolog.Nop()
	fs := newFakeHistory()
	fs.events["lobby"] = []models.ServerMessage{
		models.UserJoined("alice"),
		models.NewMessage("alice", "hello"),
	}

	registry := chat.NewRegistry(log, fs, chat.NewPersister(log, fs, 8), 50)
	for i := 0; i < 3; i++ {
		registry.Join("lobby", chat.NewSession(1))
	}
	registry.Join("side", chat.NewSession(1))

	h := NewHandler(log, registry, fs, 1)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rr := httptest.NewRecorder()
	h.Stats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp StatsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.LiveRooms != 2 {
		t.Fatalf("live_rooms = %d, want 2", resp.LiveRooms)
	}

	occupants := 0
	for _, room := range resp.Rooms {
		occupants += room.Occupants
	}
	if resp.LiveSessions != occupants {
		t.Fatalf("live_sessions = %d, occupant sum = %d; totals must come from one snapshot", resp.LiveSessions, occupants)
	}
	if resp.LiveSessions != 4 {
		t.Fatalf("live_sessions = %d, want 4", resp.LiveSessions)
	}

	for _, room := range resp.Rooms {
		if room.Name == "lobby" && room.StoredEvents != 2 {
			t.Fatalf("lobby stored_events = %d, want 2", room.StoredEvents)
		}
	}
}
