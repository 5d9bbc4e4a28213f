package models

import "fmt"

// EventType discriminates the ServerMessage variants.
type EventType string

const (
	EventUserJoined EventType = "UserJoined"
	EventUserLeft   EventType = "UserLeft"
	EventNewMessage EventType = "NewMessage"
)

// ServerMessage is one event fanned out to a room. It is immutable once
// constructed and safe to share across recipients. The JSON shape is also
// the durable encoding written to the history store.
type ServerMessage struct {
	Type     EventType `json:"type"`
	Username string    `json:"username"`
	Content  string    `json:"content,omitempty"`
}

// UserJoined builds the event announcing a (re)named session.
func UserJoined(username string) ServerMessage {
	return ServerMessage{Type: EventUserJoined, Username: username}
}

// UserLeft builds the event announcing a named session's departure.
func UserLeft(username string) ServerMessage {
	return ServerMessage{Type: EventUserLeft, Username: username}
}

// NewMessage builds a chat message event.
func NewMessage(username, content string) ServerMessage {
	return ServerMessage{Type: EventNewMessage, Username: username, Content: content}
}

// Render converts an event to its human-readable wire form. Broadcast and
// history replay both go through here so every recipient sees identical bytes.
func (m ServerMessage) Render() string {
	switch m.Type {
	case EventNewMessage:
		return fmt.Sprintf("[%s] %s", m.Username, m.Content)
	case EventUserJoined:
		return fmt.Sprintf("--> %s joined the room", m.Username)
	case EventUserLeft:
		return fmt.Sprintf("<-- %s left the room", m.Username)
	}
	return ""
}
