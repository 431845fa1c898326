package events

import "sync"

const subscriberBuffer = 16

// Hub fans pipeline events out to SSE subscribers. A slow subscriber
// loses events rather than stalling a refresh cycle.
type Hub struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}

// Publish delivers a pre-encoded event to every subscriber.
func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			// subscriber is behind; drop
		}
	}
}

// Broadcast encodes one of the pipeline event types and publishes it.
func (h *Hub) Broadcast(reqID, typ string, data any) {
	h.Publish(MakeEvent(reqID, typ, 1, data))
}
