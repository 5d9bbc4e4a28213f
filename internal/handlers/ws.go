package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/parley-chat/parley/internal/chat"
	"github.com/parley-chat/parley/internal/metrics"
	"github.com/parley-chat/parley/internal/models"
)

// pingInterval paces keepalive pings from the write pump.
const pingInterval = 20 * time.Second

// ServeWS upgrades GET /ws/{room} and drives the connection's whole session
// lifecycle: join as anonymous, read intents until the connection drops,
// then clean up and announce the departure if the session was named.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomName := chi.URLParam(r, "room")
	if roomName == "" {
		h.Error(w, http.StatusBadRequest, "room name required")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Error().Err(err).Str("room", roomName).Msg("websocket accept failed")
		return
	}

	metrics.ConnectionsTotal.Inc()
	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	s := chat.NewSession(h.sendBuffer)
	h.registry.Join(roomName, s)

	h.log.Info().Str("room", roomName).Str("session", s.ID.String()).Msg("client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.writeLoop(ctx, conn, s)

	// The read loop is the sole authority for disconnect detection; when it
	// returns, for whatever reason, the session is over.
	h.readLoop(ctx, conn, roomName, s)

	name, wasNamed := h.registry.Remove(roomName, s.ID)
	s.CloseOutbound()

	if wasNamed {
		h.registry.Broadcast(roomName, models.UserLeft(name), nil)
	}

	h.log.Info().Str("room", roomName).Str("session", s.ID.String()).Bool("named", wasNamed).Msg("client disconnected")
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
}

// readLoop parses inbound frames into intents and dispatches them to the
// registry until the connection errors or closes.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, roomName string, s *chat.Session) {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		intent := models.ParseIntent(string(data))
		switch intent.Kind {
		case models.IntentSetName:
			h.registry.SetName(ctx, roomName, s.ID, intent.Name)
		case models.IntentHistory:
			h.registry.History(ctx, roomName, s.ID)
		case models.IntentChat:
			h.registry.SendChat(roomName, s.ID, intent.Content)
		case models.IntentNone:
			// whitespace-only frame, dropped silently
		}
	}
}

// writeLoop owns the session's send channel, forwarding each line to the
// socket and pinging periodically. It exits when the channel is closed or
// the connection context ends. A write error is not a disconnect signal;
// the read loop will observe the broken connection on its own.
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, s *chat.Session) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case line, ok := <-s.Outbound():
			if !ok {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
				h.log.Debug().Err(err).Str("session", s.ID.String()).Msg("write to client failed")
			}
		case <-ticker.C:
			_ = conn.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}
