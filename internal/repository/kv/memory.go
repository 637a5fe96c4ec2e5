package kv

import (
	"context"
	"sync"
	"time"
)

// Compile-time check: Memory implements Store.
var _ Store = (*Memory)(nil)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero = no expiry
}

// Memory is an in-process Store for local runs and tests.
type Memory struct {
	mu sync.RWMutex
	m  map[string]memoryEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]memoryEntry)}
}

// Get retrieves a value by key.
func (s *Memory) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value without expiration.
func (s *Memory) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	s.m[key] = memoryEntry{value: v}
	s.mu.Unlock()
	return nil
}

// SetWithTTL stores a value with an expiration.
func (s *Memory) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	s.m[key] = memoryEntry{value: v, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (s *Memory) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Memory) Close() {}
