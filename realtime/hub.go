package realtime

import "sync"

const subscriptionBuffer = 64

// Subscription is one session's ordered event stream. C is closed when the
// subscription is cancelled.
type Subscription struct {
	C    chan Event
	hub  *Hub
	once sync.Once
}

// Cancel removes the subscription from the hub and closes C. Safe to call
// more than once and from any goroutine.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub is the process-wide fan-out of mutation events. Delivery happens with
// the subscriber set locked, so each subscriber sees events in publish order
// and a subscriber added or removed mid-publish gets the event exactly zero
// or one times. A subscriber whose buffer is full misses the event rather
// than blocking the hub.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{C: make(chan Event, subscriptionBuffer), hub: h}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.C)
	}
}

func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.C <- event:
		default:
		}
	}
}

// Subscribers reports the current session count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
