package watcher

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/1broseidon/voltray/internal/platform"
	"github.com/1broseidon/voltray/internal/process"
)

// State is the watcher's lifecycle phase.
type State int

const (
	// Idle means no session is being watched
	Idle State = iota
	// Watching means a session is active and ticking
	Watching
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Watching:
		return "watching"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating one tick.
type Decision int

const (
	Continue Decision = iota
	StopExited
	StopTimeout
	Kill
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case StopExited:
		return "exited"
	case StopTimeout:
		return "timeout"
	case Kill:
		return "kill"
	default:
		return "unknown"
	}
}

// Session is one spawn-to-dismiss cycle of the managed window.
type Session struct {
	ID            string
	Process       process.Process
	StartedAt     time.Time
	GraceUntil    time.Time
	LaunchPointer platform.Point
	Display       platform.Display
	SafeZone      platform.Rect
	Anchor        platform.Point
	Timeout       time.Duration
	PollInterval  time.Duration
	Distance      int

	// Window is set once the locator finds the mixer's top-level window.
	Window platform.WindowID
	// Placed records whether the corrective move was applied.
	Placed bool
}

// NewSessionID returns a sortable unique session identifier.
func NewSessionID() string {
	return ulid.Make().String()
}
