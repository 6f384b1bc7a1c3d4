package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/matchlens/internal/platform/resilience"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
	version  uint64
}

// Stats counts cache traffic since the store was created.
type Stats struct {
	Hits               int
	Misses             int
	Loads              int
	SharedLoads        int
	RejectedOverwrites int
}

// Store is a page-lifetime memo keyed by K. Entries never expire unless a TTL
// is set, and the first successful write for a key wins.
type Store[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]entry[V]
	versions map[K]uint64
	ttl      time.Duration
	now      func() time.Time
	flight   resilience.SingleFlight[K, V]
	stats    Stats
}

type Option func(*options)

type options struct {
	ttl time.Duration
	now func() time.Time
}

func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func NewStore[K comparable, V any](opts ...Option) *Store[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[K, V]{
		entries:  make(map[K]entry[V]),
		versions: make(map[K]uint64),
		ttl:      o.ttl,
		now:      o.now,
	}
}

func (s *Store[K, V]) Get(_ context.Context, key K) (V, bool) {
	var zero V

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if ok && s.expired(e) {
		delete(s.entries, key)
		ok = false
	}
	if !ok {
		s.stats.Misses++
		return zero, false
	}
	s.stats.Hits++
	return e.value, true
}

// SetIfAbsent stores value only when key has no live entry and reports
// whether the write happened.
func (s *Store[K, V]) SetIfAbsent(_ context.Context, key K, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && !s.expired(e) {
		s.stats.RejectedOverwrites++
		return false
	}
	s.versions[key]++
	s.entries[key] = entry[V]{
		value:    value,
		storedAt: s.now(),
		version:  s.versions[key],
	}
	return true
}

func (s *Store[K, V]) Delete(_ context.Context, key K) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Version is the number of writes ever accepted for key.
func (s *Store[K, V]) Version(key K) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[key]
}

// StoredAt reports when the live entry for key was written.
func (s *Store[K, V]) StoredAt(key K) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return time.Time{}, false
	}
	return e.storedAt, true
}

func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[K, V]) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Store[K, V]) InFlight(key K) bool {
	return s.flight.InFlight(key)
}

// GetOrLoad returns the cached value for key or runs loader once for all
// concurrent callers. A failed load leaves the key empty.
func (s *Store[K, V]) GetOrLoad(ctx context.Context, key K, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, shared := s.flight.Do(key, func() (V, error) {
		if cached, ok := s.peek(key); ok {
			return cached, nil
		}

		s.mu.Lock()
		s.stats.Loads++
		s.mu.Unlock()

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		if !s.SetIfAbsent(ctx, key, loaded) {
			if cached, ok := s.peek(key); ok {
				return cached, nil
			}
		}
		return loaded, nil
	})
	if shared {
		s.mu.Lock()
		s.stats.SharedLoads++
		s.mu.Unlock()
	}
	if err != nil {
		return zero, err
	}

	return value, nil
}

func (s *Store[K, V]) peek(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || s.expired(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *Store[K, V]) expired(e entry[V]) bool {
	return s.ttl > 0 && !e.storedAt.Add(s.ttl).After(s.now())
}
