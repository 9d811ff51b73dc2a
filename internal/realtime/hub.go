package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Event describes a change to a board's lists or cards. Subscribers are
// expected to re-run their authoritative fetch on receipt rather than apply
// the payload as a diff.
type Event struct {
	Type    string  `json:"type"`
	Entity  string  `json:"entity,omitempty"`
	BoardID uint64  `json:"board_id"`
	ListID  *uint64 `json:"list_id,omitempty"`
	Payload any     `json:"payload,omitempty"`
}

// Hub fans board events out to SSE subscribers and in-process observers.
type Hub struct {
	mu        sync.RWMutex
	subs      map[uint64]map[chan []byte]struct{}
	observers []func(Event)
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]map[chan []byte]struct{})}
}

// Subscribe registers an SSE channel for one board. The returned cancel func
// must be called exactly once.
func (h *Hub) Subscribe(boardID uint64) (ch chan []byte, cancel func()) {
	ch = make(chan []byte, 16)
	h.mu.Lock()
	if h.subs[boardID] == nil {
		h.subs[boardID] = make(map[chan []byte]struct{})
	}
	h.subs[boardID][ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		if subs, ok := h.subs[boardID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subs, boardID)
			}
		}
		h.mu.Unlock()
		close(ch)
	}
}

// Observe registers an in-process callback invoked synchronously on every
// published event, regardless of board. Used by the board-state cache to
// invalidate on change.
func (h *Hub) Observe(fn func(Event)) {
	h.mu.Lock()
	h.observers = append(h.observers, fn)
	h.mu.Unlock()
}

// Publish delivers an event to the board's subscribers and all observers.
// Slow SSE subscribers are skipped; they catch up on their next re-fetch.
func (h *Hub) Publish(ev Event) {
	data, _ := json.Marshal(ev)
	h.mu.RLock()
	observers := h.observers
	subs := h.subs[ev.BoardID]
	for ch := range subs {
		select {
		case ch <- data:
		default: // drop if slow
		}
	}
	h.mu.RUnlock()
	for _, fn := range observers {
		fn(ev)
	}
}

// ServeSSE streams a board's events over one SSE connection until the client
// disconnects.
func (h *Hub) ServeSSE(c *gin.Context, boardID uint64) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "stream unsupported")
		return
	}

	ch, cancel := h.Subscribe(boardID)
	defer cancel()

	// Initial comment to open the stream
	_, _ = c.Writer.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			// heartbeat comment to keep connection alive through proxies
			_, _ = c.Writer.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(msg)
			_, _ = c.Writer.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
