package handler

import (
	"io"
	"net/http"

	"boardshelf/backend/internal/hub"
	"boardshelf/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// LibraryEventPublisher forwards committed library writes to the owner's open streams.
func LibraryEventPublisher(h *hub.Hub) func(store.EntryChange) {
	return func(change store.EntryChange) {
		h.Publish(change.Entry.UserID, hub.Event{
			Type:    string(change.Kind),
			Payload: newEntryResponse(change.Entry),
		})
	}
}

// StreamLibraryEvents godoc
// @Summary      Stream library changes
// @Description  Server-sent events for entries created, updated or deleted in the caller's library.
// @Tags         library
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200 {string} string "event stream"
// @Router       /library/events [get]
func (h *Handler) StreamLibraryEvents(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event stream unavailable"})
		return
	}

	userID := libraryUser(c)
	client := make(hub.Client, 16)
	h.Hub.Subscribe(userID, client)
	defer h.Hub.Unsubscribe(userID, client)

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("library", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
