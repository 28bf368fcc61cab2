package sim

import (
	"context"
	"time"
)

// Clock is the simulation's monotonic time source. Operations simulate work by
// sleeping on it, and every logged event is stamped with Elapsed.
type Clock interface {
	// Elapsed returns the time since the simulation started.
	Elapsed() time.Duration
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

// WallClock measures real elapsed time and sleeps in wall time.
type WallClock struct {
	start time.Time
}

// NewWallClock starts a clock at the current instant.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Elapsed() time.Duration {
	return time.Since(c.start)
}

func (c *WallClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
