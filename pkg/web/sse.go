package web

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// StreamError is the payload of an "error" event on a live stream.
type StreamError struct {
	Error string `json:"error"`
	Hint  string `json:"hint"`
}

// Null is the data of an event that carries no value.
var Null = json.RawMessage("null")

// StartStream sets the headers of a server-sent events response.
func StartStream(gctx *gin.Context) {
	h := gctx.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// SendEvent writes one server-sent event and flushes it to the client.
func SendEvent(gctx *gin.Context, event string, data any) {
	gctx.SSEvent(event, data)
	gctx.Writer.Flush()
}
