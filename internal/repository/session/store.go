// Package session stores per-session conversation history.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/repository/kv"
)

// KV persists session history as JSON in a key-value store with a TTL,
// so idle conversations expire on their own.
type KV struct {
	store  kv.Store
	prefix string
	ttl    time.Duration
}

// NewKV creates a key-value backed session store.
func NewKV(store kv.Store, prefix string, ttl time.Duration) *KV {
	return &KV{store: store, prefix: prefix + "session:", ttl: ttl}
}

// Get returns the session's history; unknown or expired sessions yield an empty one.
func (s *KV) Get(ctx context.Context, sessionID string) (domain.History, error) {
	data, err := s.store.Get(ctx, s.prefix+sessionID)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return domain.History{}, nil
		}
		return domain.History{}, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	var turns []domain.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return domain.History{}, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return domain.NewHistory(turns), nil
}

// Append records a finished turn and refreshes the session TTL.
func (s *KV) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	h, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	h.Append(turn)

	data, err := json.Marshal(h.Turns())
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := s.store.SetWithTTL(ctx, s.prefix+sessionID, data, s.ttl); err != nil {
		return fmt.Errorf("store session %s: %w", sessionID, err)
	}
	return nil
}

// Ping checks the backing store.
func (s *KV) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
