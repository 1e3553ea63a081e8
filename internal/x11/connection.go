// Package x11 holds the X11 queries behind the Linux platform backend:
// RandR monitors, usable areas, pointer position and client windows.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection is one X display connection plus its root window.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// Open connects to display, or to $DISPLAY when display is empty. The
// keybind module is initialized so a hotkey can be grabbed later.
func Open(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		if display == "" {
			display = "$DISPLAY"
		}
		return nil, fmt.Errorf("open display %s: %w", display, err)
	}
	keybind.Initialize(xu)
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

// EventLoop dispatches X events until Quit is called.
func (c *Connection) EventLoop() { xevent.Main(c.XUtil) }

// Quit makes a running EventLoop return.
func (c *Connection) Quit() { xevent.Quit(c.XUtil) }

// Close disconnects from the server.
func (c *Connection) Close() { c.XUtil.Conn().Close() }
