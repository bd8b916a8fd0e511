package flash

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-process fallback used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	msgs    []Message
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry), now: time.Now}
}

func (s *MemoryStore) Push(_ context.Context, id string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evict(now)
	e, ok := s.entries[id]
	if !ok {
		e = &memoryEntry{}
		s.entries[id] = e
	}
	e.msgs = append(e.msgs, msg)
	e.expires = now.Add(TTL)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, id string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	delete(s.entries, id)
	if s.now().After(e.expires) {
		return nil, nil
	}
	return e.msgs, nil
}

// evict drops expired entries. Caller holds mu.
func (s *MemoryStore) evict(now time.Time) {
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
}
