package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
)

// keepAliveInterval is how often idle streams emit a heartbeat so
// intermediaries do not close the connection.
const keepAliveInterval = 30 * time.Second

// RegisterRoutes registers the notification stream routes
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/stream", h.HandleSSE)
		r.Get("/ws", h.HandleWebSocket)
	})
}

// HandleSSE handles GET /api/notifications/stream (Server-Sent Events).
func (h *Hub) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := h.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case n := <-ch:
			data, err := json.Marshal(n)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// HandleWebSocket handles GET /api/notifications/ws.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same-origin policy handled by CORS middleware
	})
	if err != nil {
		h.log.Debug().Err(err).Msg("WebSocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ch, cancel := h.Subscribe()
	defer cancel()

	ctx := r.Context()
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case n := <-ch:
			data, err := json.Marshal(n)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}
