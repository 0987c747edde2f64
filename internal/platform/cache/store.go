// Package cache provides a small in-process TTL cache used for read-side
// responses (standings tables, club profiles) that are expensive to rebuild
// but tolerate short staleness.
package cache

import (
	"sync"
	"time"

	"github.com/pbarzyk/matchboard/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	flight  resilience.Group[V]

	stopOnce sync.Once
	stop     chan struct{}
}

// NewStore creates a cache whose entries expire after ttl. A background
// janitor evicts stale entries so long-lived keys do not pin memory.
func NewStore[V any](ttl time.Duration) *Store[V] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	s := &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs load to produce it.
// Concurrent misses on the same key share one load; errors are not cached.
func (s *Store[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}
	v, err, _ := s.flight.Do(key, func() (V, error) {
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			var zero V
			return zero, err
		}
		s.Set(key, v)
		return v, nil
	})
	return v, err
}

func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Purge drops every entry, e.g. after an ingestion pass rewrites the data
// the cached responses were derived from.
func (s *Store[V]) Purge() {
	s.mu.Lock()
	s.entries = make(map[string]entry[V])
	s.mu.Unlock()
}

func (s *Store[V]) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store[V]) janitor() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
