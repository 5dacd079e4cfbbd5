package feed

import (
	"sync"

	"github.com/rs/zerolog"

	"foodbridge/internal/metrics"
	"foodbridge/internal/session"
)

const subscriberBuffer = 32

// Hub fans donation events out to the websocket subscribers of the session
// that produced them.
type Hub struct {
	log zerolog.Logger

	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

type subscriber struct {
	ch chan session.DonationEvent
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:  log.With().Str("component", "feed").Logger(),
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

// Publish delivers ev to every subscriber of ev.SessionID. It never blocks:
// a subscriber that lags behind loses its oldest pending event.
// Publish has the session.Listener signature.
func (h *Hub) Publish(ev session.DonationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[ev.SessionID] {
		push(sub.ch, ev)
	}
}

// Subscribe registers a receiver for sessionID. The returned cancel func
// must be called to release it.
func (h *Hub) Subscribe(sessionID string) (<-chan session.DonationEvent, func()) {
	sub := &subscriber{ch: make(chan session.DonationEvent, subscriberBuffer)}
	h.mu.Lock()
	set := h.subs[sessionID]
	if set == nil {
		set = make(map[*subscriber]struct{})
		h.subs[sessionID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()
	metrics.FeedSubscribers.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[sessionID], sub)
			if len(h.subs[sessionID]) == 0 {
				delete(h.subs, sessionID)
			}
			h.mu.Unlock()
			metrics.FeedSubscribers.Dec()
		})
	}
	return sub.ch, cancel
}

// Subscribers returns the number of receivers for sessionID.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}

func push[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
