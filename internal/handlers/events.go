package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nanaqwameboafo/trello-clone/internal/constants"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/realtime"
)

// EventsHandler streams board change events over SSE.
type EventsHandler struct {
	hub *realtime.Hub
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// StreamBoardEvents serves one SSE connection for the board from the URL.
// Clients re-run their board fetch on every event rather than patching state.
func (h *EventsHandler) StreamBoardEvents(c *gin.Context) {
	boardInterface, _ := c.Get(constants.ContextKeyBoard)
	board := boardInterface.(models.Board)

	h.hub.ServeSSE(c, board.ID)
}
