// Package cache memoizes expensive filer reads with bounded staleness.
// Each Filer owns its own Store; there is no process-wide state. Entries are
// keyed by resource kind plus call arguments, so a mutation of one resource
// class invalidates exactly that class.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type entry struct {
	value    any
	storedAt time.Time
	gen      uint64
}

// Store is a TTL-bound read cache. Expiry is decided here rather than by
// the underlying store so that a failed recompute can keep serving nothing
// while the stale entry stays in place for the next attempt.
type Store struct {
	enabled bool
	ttl     time.Duration

	items *ttlcache.Cache[string, entry]

	mu   sync.Mutex
	gens map[string]uint64

	now func() time.Time
}

// New builds a store. ttl = 0 caches forever (explicit opt-in); a disabled
// store is a pass-through that always recomputes.
func New(enabled bool, ttl time.Duration) *Store {
	return &Store{
		enabled: enabled,
		ttl:     ttl,
		items: ttlcache.New[string, entry](
			ttlcache.WithDisableTouchOnHit[string, entry](),
		),
		gens: map[string]uint64{},
		now:  time.Now,
	}
}

const keySep = "\x00"

// GetOrCompute returns the cached value for (kind, key), recomputing it
// synchronously when missing or expired. A failed recompute propagates the
// error and leaves any stale entry untouched. A value computed before an
// Invalidate of its kind is discarded rather than stored, so invalidation
// can never be undone by an in-flight read.
func GetOrCompute[T any](s *Store, kind, key string, compute func() (T, error)) (T, error) {
	if s == nil || !s.enabled {
		return compute()
	}

	full := kind + keySep + key

	s.mu.Lock()
	gen := s.gens[kind]
	s.mu.Unlock()

	if item := s.items.Get(full); item != nil {
		e := item.Value()
		if e.gen == gen && !s.expired(e) {
			return e.value.(T), nil
		}
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	if s.gens[kind] == gen {
		s.items.Set(full, entry{value: value, storedAt: s.now(), gen: gen}, ttlcache.NoTTL)
	}
	s.mu.Unlock()
	return value, nil
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.storedAt) >= s.ttl
}

// Invalidate eagerly drops every entry of the given kinds. Reads already
// computing see their generation bumped and will not resurrect stale data.
func (s *Store) Invalidate(kinds ...string) {
	if s == nil || !s.enabled {
		return
	}
	s.mu.Lock()
	for _, kind := range kinds {
		s.gens[kind]++
	}
	s.mu.Unlock()

	for _, key := range s.items.Keys() {
		for _, kind := range kinds {
			if strings.HasPrefix(key, kind+keySep) {
				s.items.Delete(key)
				break
			}
		}
	}
}

// Purge drops everything; used at Filer teardown.
func (s *Store) Purge() {
	if s == nil {
		return
	}
	s.items.DeleteAll()
}
