package session

import (
	"context"
	"sync"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// Memory keeps per-session history in process memory.
// Suitable for single-instance local runs; history is lost on restart.
type Memory struct {
	mu sync.Mutex
	m  map[string]domain.History
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]domain.History)}
}

// Get returns the session's history; unknown sessions yield an empty one.
func (s *Memory) Get(_ context.Context, sessionID string) (domain.History, error) {
	s.mu.Lock()
	h := s.m[sessionID]
	s.mu.Unlock()

	// Deep copy so the caller's appends never alias stored turns.
	return domain.NewHistory(h.Turns()), nil
}

// Append records a finished turn.
func (s *Memory) Append(_ context.Context, sessionID string, turn domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.m[sessionID]
	h.Append(turn)
	s.m[sessionID] = h
	return nil
}

// Ping always succeeds.
func (s *Memory) Ping(_ context.Context) error { return nil }
