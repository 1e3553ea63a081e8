package placement

import (
	"fmt"

	"github.com/1broseidon/voltray/internal/platform"
)

// ClampTopLeft returns the top-left position that puts a w×h window's
// bottom-right corner on anchor while keeping it inside bounds. When the
// window is larger than bounds the right/bottom clamp wins.
func ClampTopLeft(bounds platform.Rect, anchor platform.Point, w, h int) platform.Point {
	x := anchor.X - w
	y := anchor.Y - h

	if x < bounds.Left() {
		x = bounds.Left()
	}
	if y < bounds.Top() {
		y = bounds.Top()
	}
	if x+w > bounds.Right() {
		x = bounds.Right() - w
	}
	if y+h > bounds.Bottom() {
		y = bounds.Bottom() - h
	}
	return platform.Point{X: x, Y: y}
}

// Positioner moves an existing window so it hugs an anchor point.
type Positioner struct {
	Backend platform.Backend
}

// Place reads the window's current size and moves it next to anchor. The
// window is never resized. A window whose rectangle cannot be read is left
// untouched and Place returns an error.
func (p Positioner) Place(windowID platform.WindowID, bounds platform.Rect, anchor platform.Point) (platform.Point, error) {
	rect, err := p.Backend.WindowRect(windowID)
	if err != nil {
		return platform.Point{}, fmt.Errorf("failed to read window rect: %w", err)
	}

	topLeft := ClampTopLeft(bounds, anchor, rect.Width, rect.Height)
	if err := p.Backend.MoveWindow(windowID, topLeft); err != nil {
		return platform.Point{}, fmt.Errorf("failed to move window: %w", err)
	}
	return topLeft, nil
}
