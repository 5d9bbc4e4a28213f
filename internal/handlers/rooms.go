package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parley-chat/parley/internal/chat"
)

// RoomListResponse represents the live rooms list response.
type RoomListResponse struct {
	Rooms []chat.RoomInfo `json:"rooms"`
	Total int             `json:"total"`
}

// ListRooms handles listing currently live rooms with their occupancy.
// Rooms exist only while occupied, so an empty list just means nobody is
// connected right now.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.registry.Rooms()
	h.JSON(w, http.StatusOK, RoomListResponse{Rooms: rooms, Total: len(rooms)})
}

// HistoryEntry represents one stored event in API responses.
type HistoryEntry struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Content  string `json:"content,omitempty"`
	Rendered string `json:"rendered"`
}

// RoomMessagesResponse represents the paged durable history response.
type RoomMessagesResponse struct {
	Room     string         `json:"room"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int64          `json:"total"`
	Messages []HistoryEntry `json:"messages"`
}

// RoomMessages handles fetching a page of a room's durable history, counted
// back from the newest event, chronological within the page.
func (h *Handler) RoomMessages(w http.ResponseWriter, r *http.Request) {
	roomName := chi.URLParam(r, "name")
	if roomName == "" {
		h.Error(w, http.StatusBadRequest, "room name required")
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := 50
	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			pageSize = s
		}
	}
	if pageSize > 200 {
		pageSize = 200
	}

	total, err := h.history.Count(r.Context(), roomName)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count messages")
		return
	}

	events, err := h.history.LoadPage(r.Context(), roomName, page, pageSize)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}

	messages := make([]HistoryEntry, len(events))
	for i, event := range events {
		messages[i] = HistoryEntry{
			Type:     string(event.Type),
			Username: event.Username,
			Content:  event.Content,
			Rendered: event.Render(),
		}
	}

	h.JSON(w, http.StatusOK, RoomMessagesResponse{
		Room:     roomName,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Messages: messages,
	})
}
