package controller

import (
	"context"
	"time"
)

// Status is a point-in-time snapshot of the controller.
type Status struct {
	State     string    `json:"state"`
	SessionID string    `json:"session_id,omitempty"`
	PID       int       `json:"pid,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Display   string    `json:"display,omitempty"`
	AnchorX   int       `json:"anchor_x,omitempty"`
	AnchorY   int       `json:"anchor_y,omitempty"`
	Window    uint64    `json:"window,omitempty"`
	Placed    bool      `json:"placed"`
	MixerPath string    `json:"mixer_path"`
	Toggles   int       `json:"toggles"`
	LastError string    `json:"last_error,omitempty"`
}

// Status returns a snapshot taken on the loop goroutine. If the loop is not
// running the zero Status is returned with State "stopped".
func (c *Controller) Status(ctx context.Context) Status {
	var st Status
	if err := c.do(ctx, func() { st = c.snapshot() }); err != nil {
		return Status{State: "stopped"}
	}
	return st
}

func (c *Controller) snapshot() Status {
	st := Status{
		State:     c.watch.State().String(),
		MixerPath: c.cfg.MixerPath(),
		Toggles:   c.toggles,
		LastError: c.lastError,
	}
	s, ok := c.watch.Active()
	if !ok {
		return st
	}
	st.SessionID = s.ID
	if s.Process != nil {
		st.PID = s.Process.PID()
	}
	st.StartedAt = s.StartedAt
	st.Display = s.Display.Name
	st.AnchorX = s.Anchor.X
	st.AnchorY = s.Anchor.Y
	st.Window = uint64(s.Window)
	st.Placed = s.Placed
	return st
}
