// Package notify fans transient user notifications out to connected
// clients. The core constructs messages; this package owns delivery.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notification is a transient human-readable message.
type Notification struct {
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// subscriberBuffer is the per-subscriber queue depth. Slow consumers
// drop messages rather than block publishers.
const subscriberBuffer = 16

// Hub broadcasts notifications to all current subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Notification]struct{}
	log         zerolog.Logger
}

// NewHub creates a new notification hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[chan Notification]struct{}),
		log:         log.With().Str("component", "notify").Logger(),
	}
}

// Notify broadcasts a message to all subscribers. Never blocks.
func (h *Hub) Notify(message string) {
	n := Notification{Message: message, Time: time.Now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- n:
		default:
			h.log.Debug().Msg("Dropping notification for slow subscriber")
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func must
// be called to release it.
func (h *Hub) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}
