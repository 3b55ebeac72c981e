package cache

import (
	"context"
	"sync"
	"time"
)

type memItem struct {
	value   []byte
	expires time.Time
}

func (it memItem) expired(now time.Time) bool {
	return !it.expires.IsZero() && now.After(it.expires)
}

// MemoryStore is a process-local Store. Expired entries are dropped lazily
// on read and by Sweep.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memItem{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if it.expired(s.now()) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), it.value...), true, nil
}

// Set stores value; a non-positive ttl keeps it until deleted.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	it := memItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Sweep removes every expired entry and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, it := range s.items {
		if it.expired(now) {
			delete(s.items, k)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep on every tick until done is closed.
func (s *MemoryStore) StartSweeper(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()
}
