//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/voltray/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewBackend opens the X11 display named by $DISPLAY.
func NewBackend() (Backend, error) {
	conn, err := x11.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop makes a running EventLoop return.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays with their usable areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:      m.ID,
			Name:    m.Name,
			Primary: m.Primary,
			Bounds:  rectFromX11(m.Bounds),
			Usable:  rectFromX11(conn.UsableArea(m)),
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// CursorPos returns the pointer position in root coordinates.
func (b *LinuxBackend) CursorPos() (Point, error) {
	conn, err := b.connection()
	if err != nil {
		return Point{}, err
	}
	x, y, err := conn.QueryPointer()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// FindWindowByPID returns the first viewable client window owned by pid.
func (b *LinuxBackend) FindWindowByPID(pid int) (WindowID, bool, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, false, err
	}
	win, ok, err := conn.FindClientByPID(pid)
	if err != nil || !ok {
		return 0, false, err
	}
	return WindowID(win), true, nil
}

// WindowRect returns the outer rectangle of a window, decorations included.
func (b *LinuxBackend) WindowRect(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	geom, err := conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: geom.X, Y: geom.Y, Width: geom.Width, Height: geom.Height}, nil
}

// MoveWindow moves a window without resizing or raising it.
func (b *LinuxBackend) MoveWindow(windowID WindowID, topLeft Point) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(windowID), topLeft.X, topLeft.Y)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func rectFromX11(r x11.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
