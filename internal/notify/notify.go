// Package notify shows short user-visible messages such as launch failures.
package notify

import (
	"sync"
	"time"
)

// Level indicates the severity of a notification.
type Level int

const (
	// LevelInfo is for informational messages.
	LevelInfo Level = iota
	// LevelWarning is for recoverable problems.
	LevelWarning
	// LevelError is for failures the user should act on.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier delivers a transient message to the user.
type Notifier interface {
	Notify(title, message string, level Level) error
}

// Discard drops every notification. Errors are logged where they happen, so
// hosts without a user-visible channel need no sink.
type Discard struct{}

func (Discard) Notify(string, string, Level) error { return nil }

// Limited drops repeats of the same title within MinInterval.
type Limited struct {
	Next        Notifier
	MinInterval time.Duration
	Now         func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

// NewLimited wraps next with a per-title rate limit.
func NewLimited(next Notifier, minInterval time.Duration) *Limited {
	return &Limited{Next: next, MinInterval: minInterval}
}

func (l *Limited) Notify(title, message string, level Level) error {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	l.mu.Lock()
	if l.last == nil {
		l.last = make(map[string]time.Time)
	}
	t := now()
	if last, ok := l.last[title]; ok && t.Sub(last) < l.MinInterval {
		l.mu.Unlock()
		return nil
	}
	l.last[title] = t
	l.mu.Unlock()

	return l.Next.Notify(title, message, level)
}
