// Package timer schedules the deferred auto-archive of idle tickets.
package timer

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry holds at most one live inactivity timer per ticket. Scheduling
// for an already-tracked ticket fully supersedes the prior timer; it never
// stacks. All transitions are serialized under one mutex, and each entry
// carries a generation so a superseded timer that already left time.AfterFunc
// can never run its callback.
type Registry struct {
	mu      sync.Mutex
	delay   time.Duration
	entries map[string]*entry
	nextGen uint64
	logger  *zap.Logger
}

type entry struct {
	timer *time.Timer
	gen   uint64
}

// NewRegistry builds a registry firing callbacks after delay.
func NewRegistry(delay time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		delay:   delay,
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Schedule cancels any existing timer for the ticket and arms a new one.
// When the timer fires the entry removes itself before onFire runs; a panic
// in onFire is swallowed so a background failure never takes the process down.
func (r *Registry) Schedule(ticketID string, onFire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[ticketID]; ok {
		existing.timer.Stop()
	}

	// Generations are registry-wide and never reset, so a callback armed
	// before a Cancel can never match an entry armed after it.
	r.nextGen++
	gen := r.nextGen

	e := &entry{gen: gen}
	e.timer = time.AfterFunc(r.delay, func() {
		r.fire(ticketID, gen, onFire)
	})
	r.entries[ticketID] = e
}

// Cancel stops and removes the ticket's timer. A no-op when absent.
func (r *Registry) Cancel(ticketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[ticketID]; ok {
		e.timer.Stop()
		delete(r.entries, ticketID)
	}
}

// Len returns the number of live timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Shutdown stops every live timer without firing.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		e.timer.Stop()
		delete(r.entries, id)
	}
}

func (r *Registry) fire(ticketID string, gen uint64, onFire func()) {
	r.mu.Lock()
	current, ok := r.entries[ticketID]
	if !ok || current.gen != gen {
		// Cancelled or superseded between expiry and acquiring the lock.
		r.mu.Unlock()
		return
	}
	delete(r.entries, ticketID)
	r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil && r.logger != nil {
			r.logger.Error("ticket timer callback panicked",
				zap.String("ticket_id", ticketID), zap.Any("panic", rec))
		}
	}()
	onFire()
}
