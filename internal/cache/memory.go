package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemorySize = 1024

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a bounded in-process Store. Entries never outlive maxTTL,
// even when Set asks for a longer lifetime.
type MemoryStore struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

func NewMemoryStore(size int, maxTTL time.Duration) *MemoryStore {
	if size <= 0 {
		size = defaultMemorySize
	}
	if maxTTL <= 0 {
		maxTTL = DefaultTTL
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	entry, ok := s.lru.Get(key)
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		s.lru.Remove(key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.lru.Add(key, memoryEntry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Len() int {
	return s.lru.Len()
}
