package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRegistry_FiresOnceAndSelfRemoves(t *testing.T) {
	r := NewRegistry(10*time.Millisecond, zap.NewNop())
	var fired atomic.Int32

	r.Schedule("ticket-1", func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, r.Len())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestRegistry_RescheduleSupersedes(t *testing.T) {
	r := NewRegistry(30*time.Millisecond, zap.NewNop())
	var first, second atomic.Int32

	r.Schedule("ticket-1", func() { first.Add(1) })
	time.Sleep(10 * time.Millisecond)
	r.Schedule("ticket-1", func() { second.Add(1) })

	assert.Equal(t, 1, r.Len())
	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "superseded timer must not fire")
}

func TestRegistry_CancelPreventsFire(t *testing.T) {
	r := NewRegistry(20*time.Millisecond, zap.NewNop())
	var fired atomic.Int32

	r.Schedule("ticket-1", func() { fired.Add(1) })
	r.Cancel("ticket-1")

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CancelThenRescheduleNeverRunsStaleCallback(t *testing.T) {
	r := NewRegistry(time.Microsecond, zap.NewNop())

	var ranAfterCancel atomic.Bool
	for i := 0; i < 5000; i++ {
		var cancelled atomic.Bool
		r.Schedule("ticket-1", func() {
			if cancelled.Load() {
				ranAfterCancel.Store(true)
			}
		})
		// Let the timer expire so its callback is queued behind the lock,
		// then cancel and immediately re-arm the same ticket.
		time.Sleep(2 * time.Microsecond)
		r.Cancel("ticket-1")
		cancelled.Store(true)
		r.Schedule("ticket-1", func() {})
		r.Cancel("ticket-1")

		if ranAfterCancel.Load() {
			t.Fatalf("cancelled timer callback ran after re-schedule (iteration %d)", i)
		}
	}

	time.Sleep(20 * time.Millisecond)
	assert.False(t, ranAfterCancel.Load())
}

func TestRegistry_CancelAbsentIsNoop(t *testing.T) {
	r := NewRegistry(20*time.Millisecond, zap.NewNop())
	r.Cancel("never-scheduled")
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CallbackPanicIsSwallowed(t *testing.T) {
	r := NewRegistry(10*time.Millisecond, zap.NewNop())
	var after atomic.Int32

	r.Schedule("ticket-1", func() { panic("boom") })
	r.Schedule("ticket-2", func() { after.Add(1) })

	assert.Eventually(t, func() bool { return after.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_IndependentTickets(t *testing.T) {
	r := NewRegistry(15*time.Millisecond, zap.NewNop())
	var a, b atomic.Int32

	r.Schedule("a", func() { a.Add(1) })
	r.Schedule("b", func() { b.Add(1) })
	r.Cancel("a")

	assert.Eventually(t, func() bool { return b.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), a.Load())
}
