package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/1broseidon/voltray/internal/notify"
	"github.com/1broseidon/voltray/internal/platform"
	"github.com/1broseidon/voltray/internal/process"
)

var errNoWindow = errors.New("no such window")

type fakeBackend struct {
	mu       sync.Mutex
	pointer  platform.Point
	displays []platform.Display
	rect     platform.Rect
	moves    map[platform.WindowID]platform.Point
	moveErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		pointer:  platform.Point{X: 1000, Y: 1000},
		displays: twoDisplays(),
		rect:     platform.Rect{Width: 300, Height: 400},
		moves:    map[platform.WindowID]platform.Point{},
	}
}

// twoDisplays is a secondary screen left of a 1920x1080 primary with a 40px
// taskbar along the bottom.
func twoDisplays() []platform.Display {
	return []platform.Display{
		{
			ID:     0,
			Name:   "left",
			Bounds: platform.Rect{X: -1280, Y: 0, Width: 1280, Height: 1024},
			Usable: platform.Rect{X: -1280, Y: 0, Width: 1280, Height: 1024},
		},
		{
			ID:      1,
			Name:    "main",
			Primary: true,
			Bounds:  platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			Usable:  platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
		},
	}
}

func (b *fakeBackend) setPointer(p platform.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pointer = p
}

func (b *fakeBackend) move(id platform.WindowID) (platform.Point, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.moves[id]
	return p, ok
}

func (b *fakeBackend) Displays() ([]platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.Display(nil), b.displays...), nil
}

func (b *fakeBackend) CursorPos() (platform.Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pointer, nil
}

func (b *fakeBackend) FindWindowByPID(pid int) (platform.WindowID, bool, error) {
	return 0, false, nil
}

func (b *fakeBackend) WindowRect(id platform.WindowID) (platform.Rect, error) {
	if id == 0 {
		return platform.Rect{}, errNoWindow
	}
	return b.rect, nil
}

func (b *fakeBackend) MoveWindow(id platform.WindowID, p platform.Point) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.moveErr != nil {
		return b.moveErr
	}
	b.moves[id] = p
	return nil
}

func (b *fakeBackend) Close() error { return nil }

type fakeProcess struct {
	mu     sync.Mutex
	pid    int
	exited bool
	kills  int
}

func (p *fakeProcess) PID() int { return p.pid }

func (p *fakeProcess) Exited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exited
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.exited {
		p.kills++
	}
	p.exited = true
	return nil
}

func (p *fakeProcess) exit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exited = true
}

func (p *fakeProcess) killCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kills
}

type startCall struct {
	path string
	args []string
}

// fakeSupervisor behaves like the OS: KillByName also reaps processes it
// started itself.
type fakeSupervisor struct {
	mu        sync.Mutex
	started   []*fakeProcess
	calls     []startCall
	killNames []string
	startErr  error
	panicMsg  string
}

func (s *fakeSupervisor) Start(path string, args []string) (process.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.startErr != nil {
		return nil, s.startErr
	}
	p := &fakeProcess{pid: 1000 + len(s.started)}
	s.started = append(s.started, p)
	s.calls = append(s.calls, startCall{path: path, args: args})
	return p, nil
}

func (s *fakeSupervisor) KillByName(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.killNames = append(s.killNames, name)
	n := 0
	for _, p := range s.started {
		if !p.Exited() {
			p.exit()
			n++
		}
	}
	return n
}

func (s *fakeSupervisor) last() *fakeProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.started) == 0 {
		return nil
	}
	return s.started[len(s.started)-1]
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Notify(title, message string, level notify.Level) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	periods []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	c.periods = append(c.periods, d)
	return t
}

func (c *fakeClock) ticker(i int) *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[i]
}

// locatorFunc adapts a function to WindowLocator.
type locatorFunc func(ctx context.Context, pid int, maxTries int, interval time.Duration) (platform.WindowID, bool)

func (f locatorFunc) Locate(ctx context.Context, pid int, maxTries int, interval time.Duration) (platform.WindowID, bool) {
	return f(ctx, pid, maxTries, interval)
}

func notFound(context.Context, int, int, time.Duration) (platform.WindowID, bool) {
	return 0, false
}
