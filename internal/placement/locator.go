package placement

import (
	"context"
	"time"

	"github.com/1broseidon/voltray/internal/platform"
)

// Locator polls the window system for the top-level window of a process.
// Window creation lags process creation, so a few misses are expected.
type Locator struct {
	Backend platform.Backend
	// Sleep waits between attempts; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Locate tries up to maxTries times, sleeping interval between misses.
// Enumeration errors count as misses. It gives up early when ctx ends.
func (l Locator) Locate(ctx context.Context, pid int, maxTries int, interval time.Duration) (platform.WindowID, bool) {
	sleep := l.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for try := 0; try < maxTries; try++ {
		if ctx.Err() != nil {
			return 0, false
		}

		id, ok, err := l.Backend.FindWindowByPID(pid)
		if err == nil && ok && id != 0 {
			return id, true
		}

		if try == maxTries-1 {
			break
		}
		if err := sleep(ctx, interval); err != nil {
			return 0, false
		}
	}
	return 0, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
