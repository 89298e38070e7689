package relay

import "sync"

const subscriberDepth = 16

// Hub fans notifications out to currently connected listeners. A listener
// whose buffer is full loses the notification; with no listeners at all the
// notification is dropped entirely. Both are acceptable per the boundary
// contract.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Notification
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Notification)}
}

// Publish implements Notifier. It never blocks.
func (h *Hub) Publish(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
			// slow listener, drop
		}
	}
}

// Subscribe registers a listener and returns its id and receive channel.
// The channel is closed on Unsubscribe or hub Close.
func (h *Hub) Subscribe() (int, <-chan Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Notification, subscriberDepth)
	if h.closed {
		close(ch)
		return id, ch
	}
	h.subs[id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Close releases all listeners. Publish after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
