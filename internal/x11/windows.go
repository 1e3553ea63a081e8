package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Geometry is a window's outer rectangle in root coordinates, decorations included.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FindClientByPID returns the first viewable managed client whose _NET_WM_PID matches pid.
func (c *Connection) FindClientByPID(pid int) (xproto.Window, bool, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get client list: %w", err)
	}

	for _, win := range clients {
		winPID, err := ewmh.WmPidGet(c.XUtil, win)
		if err != nil || int(winPID) != pid {
			continue
		}
		if !c.isViewable(win) {
			continue
		}
		return win, true, nil
	}
	return 0, false, nil
}

func (c *Connection) isViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// WindowGeometry returns the outer geometry of a client window.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	left, right, top, bottom := c.frameExtents(windowID)

	return Geometry{
		X:      int(translate.DstX) - left,
		Y:      int(translate.DstY) - top,
		Width:  int(geom.Width) + left + right,
		Height: int(geom.Height) + top + bottom,
	}, nil
}

// MoveWindow moves a window's frame to x,y. Size and stacking order are left
// alone. The window manager is asked first through _NET_MOVERESIZE_WINDOW;
// when that cannot be sent, a checked ConfigureWindow is issued instead.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	return moveWithFallback(
		func() error { return ewmh.MoveWindow(c.XUtil, windowID, x, y) },
		func() error {
			return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID,
				xproto.ConfigWindowX|xproto.ConfigWindowY,
				[]uint32{uint32(int32(x)), uint32(int32(y))}).Check()
		},
	)
}

// moveWithFallback runs direct only when request fails and reports failure
// only when both do.
func moveWithFallback(request, direct func() error) error {
	reqErr := request()
	if reqErr == nil {
		return nil
	}
	if err := direct(); err != nil {
		return fmt.Errorf("move window: %w", errors.Join(reqErr, err))
	}
	return nil
}

// frameExtents returns the window decoration sizes, zero when unavailable.
func (c *Connection) frameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}
