package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"foodbridge/internal/metrics"
	"foodbridge/internal/types"
)

// RegistryOptions configures session retention.
type RegistryOptions struct {
	// TTL is the idle lifetime of a session. Zero keeps sessions until evicted by size.
	TTL time.Duration
	// MaxSessions bounds the number of live sessions. Zero means unbounded.
	MaxSessions int
	// Seed adds the demo donations to every new session.
	Seed bool
	// Listener receives the donation events of every session.
	Listener Listener
}

// Registry keeps sessions in memory, keyed by a random id.
// Sessions idle for longer than TTL are dropped together with their donations.
type Registry struct {
	opts RegistryOptions
	log  zerolog.Logger

	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

func NewRegistry(opts RegistryOptions, log zerolog.Logger) *Registry {
	r := &Registry{opts: opts, log: log.With().Str("component", "session").Logger()}
	// the evict callback runs under the cache lock and must not call back into it
	r.cache = expirable.NewLRU[string, *Session](opts.MaxSessions, r.onEvict, opts.TTL)
	return r
}

func (r *Registry) onEvict(id string, _ *Session) {
	metrics.SessionsActive.Dec()
	r.log.Debug().Str("session_id", id).Msg("session evicted")
}

// Get returns the session for id and refreshes its idle timer.
func (r *Registry) Get(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	r.cache.Add(id, s)
	return s, true
}

// GetOrCreate returns the session for id, or a new session with a fresh id
// when id is empty or unknown. created reports which one happened.
func (r *Registry) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}
	return r.Create(), true
}

// Create starts a new session.
func (r *Registry) Create() *Session {
	s := New(uuid.NewString(), r.opts.Listener)
	if r.opts.Seed {
		for _, in := range types.SeedDonations() {
			s.lastID++
			s.donations = append(s.donations, types.Donation{
				ID:       s.lastID,
				Item:     in.Item,
				Quantity: in.Quantity,
				Category: in.Category,
				Expiry:   in.Expiry,
				Status:   types.StatusAvailable,
			})
		}
	}
	r.mu.Lock()
	r.cache.Add(s.ID(), s)
	r.mu.Unlock()
	metrics.SessionsActive.Inc()
	r.log.Debug().Str("session_id", s.ID()).Bool("seeded", r.opts.Seed).Msg("session created")
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}
