package controllers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/state"
)

const eventsHeartbeat = 25 * time.Second

// EventsController streams key changes as server-sent events so a client
// knows when to re-read.
type EventsController struct {
	hub *state.Hub
}

func NewEventsController(hub *state.Hub) *EventsController {
	return &EventsController{hub: hub}
}

// Stream emits one event per change. The event name is the storage key and
// carries no payload.
func (e *EventsController) Stream(ctx *gin.Context) {
	keys := make(chan string, 64)
	unsubscribe := e.hub.SubscribeAll(func(key string) {
		select {
		case keys <- key:
		default:
			// client is behind; it will still see later changes
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(eventsHeartbeat)
	defer ticker.Stop()

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("X-Accel-Buffering", "no")
	ctx.SSEvent("ready", e.hub.ID())
	ctx.Writer.Flush()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case key := <-keys:
			ctx.SSEvent(key, "")
			return true
		case <-ticker.C:
			ctx.SSEvent("ping", "")
			return true
		}
	})
}
