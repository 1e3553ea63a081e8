package watcher

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/voltray/internal/platform"
)

// Watcher holds at most one Session. It is not safe for concurrent use; the
// controller drives it from a single goroutine.
type Watcher struct {
	session *Session
	logger  *slog.Logger
}

// New creates an idle watcher.
func New(logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{logger: logger}
}

// State reports whether a session is being watched.
func (w *Watcher) State() State {
	if w.session == nil {
		return Idle
	}
	return Watching
}

// Begin starts watching s, replacing any previous session wholesale.
func (w *Watcher) Begin(s Session) {
	w.session = &s
}

// End stops watching and returns the session that was active, if any.
func (w *Watcher) End() (Session, bool) {
	if w.session == nil {
		return Session{}, false
	}
	s := *w.session
	w.session = nil
	return s, true
}

// Active returns a copy of the current session.
func (w *Watcher) Active() (Session, bool) {
	if w.session == nil {
		return Session{}, false
	}
	return *w.session, true
}

// Update applies fn to the active session if its ID matches.
func (w *Watcher) Update(id string, fn func(*Session)) bool {
	if w.session == nil || w.session.ID != id {
		return false
	}
	fn(w.session)
	return true
}

// Tick evaluates the active session and acts on the decision. A kill is
// best-effort; the watcher returns to Idle whenever the decision is not
// Continue. Panics are recovered so a bad tick never takes the host down.
func (w *Watcher) Tick(now time.Time, pointer platform.Point, pointerErr error) (decision Decision) {
	if w.session == nil {
		return Continue
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("watcher tick panic recovered", "error", fmt.Sprint(r))
			decision = Continue
		}
	}()

	decision = Evaluate(*w.session, now, pointer, pointerErr)
	switch decision {
	case Continue:
		return decision
	case Kill:
		if err := w.session.Process.Kill(); err != nil {
			w.logger.Debug("kill failed", "session", w.session.ID, "error", err)
		}
	}

	w.logger.Info("watch ended", "session", w.session.ID, "reason", decision.String())
	w.session = nil
	return decision
}
