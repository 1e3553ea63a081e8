// Package controller owns the toggle cycle: it spawns the mixer, places its
// window and runs the dismissal watcher on a single event loop goroutine.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/voltray/internal/config"
	"github.com/1broseidon/voltray/internal/notify"
	"github.com/1broseidon/voltray/internal/placement"
	"github.com/1broseidon/voltray/internal/platform"
	"github.com/1broseidon/voltray/internal/process"
	"github.com/1broseidon/voltray/internal/watcher"
)

var (
	// ErrSpawn wraps failures to launch the mixer executable.
	ErrSpawn = errors.New("failed to launch mixer")
	// ErrStopped is returned once Run has exited.
	ErrStopped = errors.New("controller stopped")
)

const notifyTitle = "Volume Mixer"

// Result is the outcome of a toggle.
type Result int

const (
	Opened Result = iota + 1
	Closed
)

func (r Result) String() string {
	switch r {
	case Opened:
		return "opened"
	case Closed:
		return "closed"
	default:
		return "none"
	}
}

// WindowLocator finds a process's top-level window with bounded retries.
type WindowLocator interface {
	Locate(ctx context.Context, pid int, maxTries int, interval time.Duration) (platform.WindowID, bool)
}

// Options configures a Controller. Backend, Supervisor and Config are required.
type Options struct {
	Backend    platform.Backend
	Supervisor process.Supervisor
	Notifier   notify.Notifier
	Config     *config.Config
	Logger     *slog.Logger
	Clock      Clock
	// Locator defaults to placement.Locator over Backend.
	Locator WindowLocator
}

// Controller serializes every state change through Run's goroutine.
type Controller struct {
	backend    platform.Backend
	supervisor process.Supervisor
	notifier   notify.Notifier
	locator    WindowLocator
	logger     *slog.Logger
	clock      Clock

	requests chan func()
	stopped  chan struct{}

	// Owned by the loop goroutine.
	cfg          *config.Config
	watch        *watcher.Watcher
	ticker       Ticker
	tickC        <-chan time.Time
	locateCancel context.CancelFunc
	loopCtx      context.Context
	lastError    string
	toggles      int
}

// New validates opts and returns an idle controller. Call Run to start it.
func New(opts Options) (*Controller, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("controller: backend is required")
	}
	if opts.Supervisor == nil {
		return nil, fmt.Errorf("controller: supervisor is required")
	}
	if opts.Config == nil {
		return nil, fmt.Errorf("controller: config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("controller: invalid config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	locator := opts.Locator
	if locator == nil {
		locator = placement.Locator{Backend: opts.Backend}
	}

	return &Controller{
		backend:    opts.Backend,
		supervisor: opts.Supervisor,
		notifier:   notifier,
		locator:    locator,
		logger:     logger,
		clock:      clock,
		requests:   make(chan func()),
		stopped:    make(chan struct{}),
		cfg:        opts.Config.Clone(),
		watch:      watcher.New(logger),
		loopCtx:    context.Background(),
	}, nil
}

// Run processes toggles, ticks and locator results until ctx ends. When
// close_on_exit is set the managed mixer is killed on the way out.
func (c *Controller) Run(ctx context.Context) error {
	c.loopCtx = ctx
	defer close(c.stopped)

	c.logger.Info("controller started", "mixer", c.cfg.MixerPath())
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case fn := <-c.requests:
			fn()
		case <-c.tickC:
			c.tick()
		}
	}
}

func (c *Controller) shutdown() {
	if c.cfg.CloseOnExit {
		c.closeSession("shutdown")
	} else {
		c.endSession()
	}
	c.logger.Info("controller stopped")
}

// do runs fn on the loop goroutine and waits for it to finish.
func (c *Controller) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}
	select {
	case c.requests <- wrapped:
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// post queues fn on the loop without waiting. It is used by worker goroutines.
func (c *Controller) post(fn func()) {
	select {
	case c.requests <- fn:
	case <-c.stopped:
	}
}

// Toggle opens the mixer, or closes it when a live session exists.
func (c *Controller) Toggle(ctx context.Context) (Result, error) {
	var (
		res Result
		err error
	)
	if doErr := c.do(ctx, func() { res, err = c.toggle() }); doErr != nil {
		return 0, doErr
	}
	return res, err
}

// Close ends an active session early, killing the mixer. It reports whether
// a session was active.
func (c *Controller) Close(ctx context.Context) bool {
	var closed bool
	_ = c.do(ctx, func() { closed = c.closeSession("close requested") })
	return closed
}

// UpdateConfig replaces the configuration. A running session keeps the
// values it started with.
func (c *Controller) UpdateConfig(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	next := cfg.Clone()
	return c.do(ctx, func() {
		c.cfg = next
		c.logger.Info("config updated", "timeout_ms", next.Watch.TimeoutMS, "distance_px", next.Watch.DistancePX, "monitor", next.Placement.Monitor)
	})
}

func (c *Controller) toggle() (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("toggle panic: %v", r)
			c.logger.Error("toggle panic recovered", "error", err)
			c.reportError(err)
		}
	}()
	c.toggles++

	// Liveness is sampled before the stray cleanup below, which may also hit
	// the managed process.
	s, active := c.watch.Active()
	live := active && s.Process != nil && !s.Process.Exited()

	if n := c.supervisor.KillByName(c.cfg.MixerProcessName()); n > 0 {
		c.logger.Debug("killed stray mixers", "name", c.cfg.MixerProcessName(), "count", n)
	}

	if live {
		c.closeSession("toggle")
		return Closed, nil
	}
	c.endSession()

	if err := c.open(); err != nil {
		return 0, err
	}
	return Opened, nil
}

func (c *Controller) open() error {
	cfg := c.cfg

	display, pointer := platform.ResolveDisplayFrom(c.backend, cfg.PreferPrimary())
	anchor := placement.ComputeAnchor(display, cfg.Placement.PadPX)
	zone := placement.SafeZone(display, anchor)
	hint := placement.PackHint(anchor)

	path := cfg.MixerPath()
	args := process.ExpandArgs(cfg.Mixer.Args, hint)

	proc, err := c.supervisor.Start(path, args)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSpawn, err)
		c.logger.Error("mixer launch failed", "path", path, "error", err)
		c.reportError(err)
		return err
	}
	c.lastError = ""

	now := c.clock.Now()
	session := watcher.Session{
		ID:            watcher.NewSessionID(),
		Process:       proc,
		StartedAt:     now,
		GraceUntil:    now.Add(cfg.Grace()),
		LaunchPointer: pointer,
		Display:       display,
		SafeZone:      zone,
		Anchor:        anchor,
		Timeout:       cfg.Timeout(),
		PollInterval:  cfg.PollInterval(),
		Distance:      cfg.Watch.DistancePX,
	}
	c.watch.Begin(session)
	c.ticker = c.clock.NewTicker(session.PollInterval)
	c.tickC = c.ticker.Chan()

	c.logger.Info("mixer opened",
		"session", session.ID,
		"pid", proc.PID(),
		"display", display.Name,
		"anchor_x", anchor.X,
		"anchor_y", anchor.Y,
		"hint", hint,
	)

	c.startLocate(session.ID, proc.PID(), cfg.Placement.LocateTries, cfg.LocateInterval())
	return nil
}

func (c *Controller) startLocate(sessionID string, pid, tries int, interval time.Duration) {
	ctx, cancel := context.WithCancel(c.loopCtx)
	c.locateCancel = cancel

	go func() {
		id, ok := c.locator.Locate(ctx, pid, tries, interval)
		if ctx.Err() != nil {
			return
		}
		c.post(func() { c.placeWindow(sessionID, id, ok) })
	}()
}

// placeWindow applies the corrective move if the session that asked for it
// is still the active one.
func (c *Controller) placeWindow(sessionID string, id platform.WindowID, found bool) {
	s, active := c.watch.Active()
	if !active || s.ID != sessionID {
		return
	}
	if !found {
		c.logger.Debug("mixer window not found", "session", sessionID)
		return
	}

	topLeft, err := placement.Positioner{Backend: c.backend}.Place(id, s.Display.Bounds, s.Anchor)
	if err != nil {
		c.logger.Debug("mixer placement skipped", "session", sessionID, "window", uint64(id), "error", err)
	}
	c.watch.Update(sessionID, func(s *watcher.Session) {
		s.Window = id
		s.Placed = err == nil
	})
	if err == nil {
		c.logger.Debug("mixer placed", "session", sessionID, "window", uint64(id), "x", topLeft.X, "y", topLeft.Y)
	}
}

func (c *Controller) tick() {
	pointer, err := c.backend.CursorPos()
	if d := c.watch.Tick(c.clock.Now(), pointer, err); d != watcher.Continue {
		c.stopTimers()
	}
}

// closeSession kills the managed process and ends the session.
func (c *Controller) closeSession(reason string) bool {
	s, ok := c.watch.Active()
	if !ok {
		return false
	}
	if s.Process != nil {
		if err := s.Process.Kill(); err != nil {
			c.logger.Debug("kill failed", "session", s.ID, "error", err)
		}
	}
	c.endSession()
	c.logger.Info("mixer closed", "session", s.ID, "reason", reason)
	return true
}

// endSession discards the session and stops its ticker and locator.
func (c *Controller) endSession() {
	c.watch.End()
	c.stopTimers()
}

func (c *Controller) stopTimers() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.tickC = nil
	if c.locateCancel != nil {
		c.locateCancel()
		c.locateCancel = nil
	}
}

func (c *Controller) reportError(err error) {
	c.lastError = err.Error()
	if !c.cfg.Notifications {
		return
	}
	if nerr := c.notifier.Notify(notifyTitle, "Failed to open mixer: "+err.Error(), notify.LevelError); nerr != nil {
		c.logger.Debug("notification failed", "error", nerr)
	}
}
