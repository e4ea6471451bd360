package inspect

import (
	"sync"

	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

// Hub publishes playfield event names to stream subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan string]struct{})}
}

// Subscribe registers a new subscriber and returns its event channel.
func (h *Hub) Subscribe() chan string {
	ch := make(chan string, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish delivers an event to all subscribers. Lagging subscribers miss
// it and catch up on the next one.
func (h *Hub) Publish(event string) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
	h.mu.Unlock()
}

// Notify implements core.Observer.
func (h *Hub) Notify(e core.Event) {
	if name := eventName(e); name != "" {
		h.Publish(name)
	}
}

func eventName(e core.Event) string {
	switch e.(type) {
	case core.HitEvent:
		return "hit"
	case core.ScrolledEvent:
		return "scrolled"
	case core.ScrolledPastThresholdEvent:
		return "threshold"
	case core.ResetEvent:
		return "reset"
	}
	return ""
}
