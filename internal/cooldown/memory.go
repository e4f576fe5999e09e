package cooldown

import (
	"context"
	"sync"
	"time"
)

// memoryTracker keeps last-creation timestamps in process memory. Entries are
// never deleted; they expire by time comparison. State is lost on restart,
// which resets cooldowns on deploy.
type memoryTracker struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
}

// NewMemoryTracker builds an in-process tracker with the given window.
func NewMemoryTracker(window time.Duration) Tracker {
	return &memoryTracker{
		window: window,
		last:   make(map[string]time.Time),
	}
}

func (t *memoryTracker) Check(ctx context.Context, userID string, now time.Time) (time.Duration, error) {
	if t.window <= 0 {
		return 0, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.last[userID]
	if !ok {
		return 0, nil
	}
	elapsed := now.Sub(last)
	if elapsed >= t.window {
		return 0, nil
	}
	return t.window - elapsed, nil
}

func (t *memoryTracker) Mark(ctx context.Context, userID string, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[userID] = now
	return nil
}
