package watcher

import (
	"time"

	"github.com/1broseidon/voltray/internal/platform"
)

// Evaluate decides what a single tick does. The checks run in a fixed order:
// liveness and timeout first, then the safe zone, then the grace period, and
// finally the distance from the launch pointer.
//
// A timeout only stops watching; the window is left for the user to close.
func Evaluate(s Session, now time.Time, pointer platform.Point, pointerErr error) Decision {
	if s.Process == nil || s.Process.Exited() {
		return StopExited
	}
	if now.Sub(s.StartedAt) > s.Timeout {
		return StopTimeout
	}

	if pointerErr != nil {
		return Continue
	}
	if s.SafeZone.Contains(pointer) {
		return Continue
	}
	if now.Before(s.GraceUntil) {
		return Continue
	}

	dx := abs(pointer.X - s.LaunchPointer.X)
	dy := abs(pointer.Y - s.LaunchPointer.Y)
	if dx > s.Distance || dy > s.Distance {
		return Kill
	}
	return Continue
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
