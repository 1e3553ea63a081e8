package platform

import "errors"

// ErrUnsupported is returned by NewBackend on platforms without a backend.
var ErrUnsupported = errors.New("platform not supported")

// WindowID is a platform-neutral window identifier (HWND or X11 window).
type WindowID uint64

// Point is a pixel coordinate in physical screen space.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Primary bool
	Bounds  Rect
	Usable  Rect
}

// Backend abstracts the window-system operations the mixer controller needs.
type Backend interface {
	Displays() ([]Display, error)
	CursorPos() (Point, error)
	// FindWindowByPID makes a single pass over top-level windows and returns
	// the first visible one owned by pid.
	FindWindowByPID(pid int) (WindowID, bool, error)
	WindowRect(windowID WindowID) (Rect, error)
	// MoveWindow repositions a window without resizing, restacking or
	// activating it.
	MoveWindow(windowID WindowID, topLeft Point) error
	Close() error
}
