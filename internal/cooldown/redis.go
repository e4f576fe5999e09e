package cooldown

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cooldown:ticket:"

// redisTracker shares cooldown state across replicas. Keys hold the unix
// timestamp of the last creation and expire after the window, so Redis does
// the cleanup the in-memory tracker skips.
type redisTracker struct {
	client *redis.Client
	window time.Duration
}

// NewRedisTracker builds a Redis-backed tracker with the given window.
func NewRedisTracker(client *redis.Client, window time.Duration) Tracker {
	return &redisTracker{client: client, window: window}
}

func (t *redisTracker) Check(ctx context.Context, userID string, now time.Time) (time.Duration, error) {
	if t.window <= 0 {
		return 0, nil
	}
	val, err := t.client.Get(ctx, redisKeyPrefix+userID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	last, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, nil
	}
	elapsed := now.Sub(time.Unix(last, 0))
	if elapsed >= t.window {
		return 0, nil
	}
	return t.window - elapsed, nil
}

func (t *redisTracker) Mark(ctx context.Context, userID string, now time.Time) error {
	return t.client.Set(ctx, redisKeyPrefix+userID, now.Unix(), t.window).Err()
}
