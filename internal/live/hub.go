// Package live pushes new-post notifications to open feed pages over
// WebSocket so readers see fresh recipes without reloading.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PostCreated announces a freshly published recipe to connected feed viewers.
type PostCreated struct {
	Type   string `json:"type"`
	PostID int64  `json:"post_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// NewPostCreated builds the post_created event for a published post.
func NewPostCreated(postID int64, title, author string) PostCreated {
	return PostCreated{
		Type:   "post_created",
		PostID: postID,
		Title:  title,
		Author: author,
	}
}

// Hub maintains the set of connected feed viewers and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a viewer to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a viewer from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends the event to every connected viewer. Viewers whose buffers
// are full miss the event rather than blocking post creation.
func (h *Hub) Broadcast(ev PostCreated) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
