package discord

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/moderation-service/internal/platform"
)

func TestGatewayPushAfterCloseIsDropped(t *testing.T) {
	g, err := NewGateway("token")
	require.NoError(t, err)

	require.NoError(t, g.Close())

	// A handler still in flight after Close must be a silent no-op, not a
	// send on a closed channel.
	g.push(platform.Event{Type: platform.EventReady})

	for {
		if _, ok := <-g.Events(); !ok {
			break
		}
	}
}

func TestGatewayCloseIsIdempotent(t *testing.T) {
	g, err := NewGateway("token")
	require.NoError(t, err)

	require.NoError(t, g.Close())
	assert.NotPanics(t, func() { _ = g.Close() })
}

func TestGatewayCloseConcurrentWithPush(t *testing.T) {
	g, err := NewGateway("token")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				g.push(platform.Event{Type: platform.EventPresence, Presence: &platform.PresenceUpdate{UserID: "u"}})
			}
		}()
	}

	require.NoError(t, g.Close())
	wg.Wait()
}
