// Package cooldown gates how often a user may open a support ticket.
package cooldown

import (
	"context"
	"time"
)

// Tracker enforces a minimum interval between ticket creations per user.
//
// Check and Mark are deliberately split: Check runs on the initial button
// press, Mark only after the user accepts the ticket rules, so pressing the
// button and cancelling never burns the cooldown.
type Tracker interface {
	// Check returns the remaining wait. Zero means the user may proceed.
	// Check never mutates state.
	Check(ctx context.Context, userID string, now time.Time) (time.Duration, error)

	// Mark records now as the user's last successful ticket creation.
	Mark(ctx context.Context, userID string, now time.Time) error
}
