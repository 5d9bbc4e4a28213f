package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/parley-chat/parley/internal/chat"
	"github.com/parley-chat/parley/internal/models"
)

// fakeHistory is an in-memory HistoryStore for handler tests.
type fakeHistory struct {
	mu     sync.Mutex
	events map[string][]models.ServerMessage
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{events: make(map[string][]models.ServerMessage)}
}

func (f *fakeHistory) Append(_ context.Context, room string, event models.ServerMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[room] = append(f.events[room], event)
	return nil
}

func (f *fakeHistory) LoadRecent(_ context.Context, room string, limit int) ([]models.ServerMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := f.events[room]
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]models.ServerMessage, len(events))
	copy(out, events)
	return out, nil
}

func (f *fakeHistory) LoadPage(_ context.Context, room string, page, pageSize int) ([]models.ServerMessage, error) {
	return nil, nil
}

func (f *fakeHistory) Count(_ context.Context, room string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.events[room])), nil
}

func (f *fakeHistory) Ping(context.Context) error { return nil }
func (f *fakeHistory) Close()                     {}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	fs := newFakeHistory()

	persister := chat.NewPersister(log, fs, 64)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go persister.Run(ctx)

	registry := chat.NewRegistry(log, fs, persister, 50)
	h := NewHandler(log, registry, fs, 64)

	r := chi.NewRouter()
	r.Get("/ws/{room}", h.ServeWS)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, room string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + room

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, []byte(text)); err != nil {
		t.Fatal(err)
	}
}

func recv(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestChatScenarioOverWebSocket(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv, "lobby")
	defer alice.Close(websocket.StatusNormalClosure, "")

	send(t, alice, "/user alice")
	// A history request doubles as a sync point: once the replay arrives,
	// the rename has been fully processed.
	send(t, alice, "/history")
	if got := recv(t, alice); got != "--> alice joined the room" {
		t.Fatalf("alice history = %q", got)
	}

	bob := dial(t, srv, "lobby")
	defer bob.Close(websocket.StatusNormalClosure, "")

	send(t, bob, "/user bob")
	if got := recv(t, bob); got != "--> alice joined the room" {
		t.Fatalf("bob replay = %q", got)
	}
	if got := recv(t, alice); got != "--> bob joined the room" {
		t.Fatalf("alice = %q", got)
	}

	send(t, bob, "hello")
	if got := recv(t, alice); got != "[bob] hello" {
		t.Fatalf("alice = %q", got)
	}

	if err := bob.Close(websocket.StatusNormalClosure, "bye"); err != nil {
		t.Fatal(err)
	}
	if got := recv(t, alice); got != "<-- bob left the room" {
		t.Fatalf("alice = %q", got)
	}
}

func TestAnonymousNoticeOverWebSocket(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv, "quiet")
	defer conn.Close(websocket.StatusNormalClosure, "")

	send(t, conn, "hello anyone?")
	got := recv(t, conn)
	if !strings.Contains(got, "/user <name>") {
		t.Fatalf("expected a set-a-username notice, got %q", got)
	}
}

func TestRoomsAreIsolated(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv, "alpha")
	defer alice.Close(websocket.StatusNormalClosure, "")
	bob := dial(t, srv, "beta")
	defer bob.Close(websocket.StatusNormalClosure, "")

	send(t, alice, "/user alice")
	send(t, bob, "/user bob")
	send(t, alice, "anyone here?")

	// Bob is in another room; nothing should arrive for him.
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if _, data, err := bob.Read(ctx); err == nil {
		t.Fatalf("bob received cross-room traffic: %q", string(data))
	}
}
