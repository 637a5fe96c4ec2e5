package credentials

import (
	"fmt"
	"sync/atomic"
)

// Provider supplies an API key for each outbound provider call.
// Implementations must be safe for concurrent use.
type Provider interface {
	Key() string
}

// Static is a single-key provider.
type Static string

// Key returns the fixed key.
func (s Static) Key() string { return string(s) }

// Rotating cycles round-robin through a fixed key list so that request
// volume spreads evenly across provider quotas.
type Rotating struct {
	keys []string
	next atomic.Uint64
}

// NewRotating creates a rotating provider. Empty keys are dropped;
// at least one non-empty key is required.
func NewRotating(keys []string) (*Rotating, error) {
	clean := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			clean = append(clean, k)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("at least one api key is required")
	}
	return &Rotating{keys: clean}, nil
}

// Key returns the next key in rotation.
func (r *Rotating) Key() string {
	n := r.next.Add(1) - 1
	return r.keys[n%uint64(len(r.keys))]
}

// Calls reports how many keys have been handed out.
func (r *Rotating) Calls() uint64 { return r.next.Load() }

// Size reports the number of usable keys.
func (r *Rotating) Size() int { return len(r.keys) }
