package chat

import (
	"github.com/google/uuid"
)

// Session is one live connection's identity plus its exclusive outbound
// delivery capability. The send channel is owned by exactly one write pump;
// everything else reaches the session by id through the Registry and only
// ever performs non-blocking sends into the channel.
type Session struct {
	ID uuid.UUID

	// name is empty until the client claims one. An empty name is the
	// explicit anonymous state; there is no sentinel value, so a user
	// literally named "anonymous" is still a named user.
	name string

	send chan string
}

// NewSession creates a session with a fresh random id and a buffered send
// channel of the given size.
func NewSession(sendBuffer int) *Session {
	return &Session{
		ID:   uuid.New(),
		send: make(chan string, sendBuffer),
	}
}

// Name returns the display name, or the empty string while anonymous.
func (s *Session) Name() string { return s.name }

// Named reports whether the session has claimed a display name.
func (s *Session) Named() bool { return s.name != "" }

// Outbound returns the channel the owning write pump drains. The pump is the
// sole reader; the channel is closed by the connection handler after the
// session has been removed from its room.
func (s *Session) Outbound() <-chan string { return s.send }

// deliver attempts a non-blocking send to the session. It returns false when
// the buffer is full, in which case the line is dropped; a slow consumer
// must never stall a room's fan-out.
func (s *Session) deliver(line string) bool {
	select {
	case s.send <- line:
		return true
	default:
		return false
	}
}

// CloseOutbound closes the send channel, ending the write pump. Only safe
// once the session has been removed from its room; before that, a broadcast
// could still reach the channel.
func (s *Session) CloseOutbound() {
	close(s.send)
}
