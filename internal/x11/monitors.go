package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Rect is a root-window rectangle. Right and Bottom are exclusive.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) right() int  { return r.X + r.Width }
func (r Rect) bottom() int { return r.Y + r.Height }

func (r Rect) empty() bool { return r.Width <= 0 || r.Height <= 0 }

// intersect returns the overlap of r and o; the zero Rect when disjoint.
func (r Rect) intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.right(), o.right()), min(r.bottom(), o.bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Monitor is an active RandR CRTC.
type Monitor struct {
	ID      int
	Name    string
	Primary bool
	Bounds  Rect
}

// Monitors lists active CRTCs in CRTC order.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		m := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("Monitor%d", i),
			Bounds: Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)},
		}
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			m.Name = string(out.Name)
		}
		for _, o := range info.Outputs {
			if primary != 0 && o == primary {
				m.Primary = true
			}
		}
		monitors = append(monitors, m)
	}
	return monitors, nil
}

// UsableArea returns the part of m not reserved by panels and docks. Dock
// struts win; _NET_WORKAREA is the fallback when no dock reserves space.
func (c *Connection) UsableArea(m Monitor) Rect {
	if root, struts, err := c.dockStruts(); err == nil {
		if usable, ok := applyStruts(m.Bounds, root, struts); ok {
			return usable
		}
	}

	workAreas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workAreas) == 0 {
		return m.Bounds
	}
	desktop := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(workAreas) {
		desktop = int(cur)
	}
	wa := workAreas[desktop]
	return clipWorkArea(m.Bounds, Rect{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)})
}

// QueryPointer returns the pointer position relative to the root window.
func (c *Connection) QueryPointer() (int, int, error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

// dockStruts returns the root geometry and the strut reservations of every
// _NET_WM_WINDOW_TYPE_DOCK client.
func (c *Connection) dockStruts() (Rect, []ewmh.WmStrutPartial, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Rect{}, nil, err
	}
	root := Rect{Width: int(geom.Width), Height: int(geom.Height)}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return Rect{}, nil, err
	}

	var struts []ewmh.WmStrutPartial
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = append(struts, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT, which spans the whole root edge.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			struts = append(struts, fullEdgeStrut(s, root))
		}
	}
	return root, struts, nil
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func fullEdgeStrut(s *ewmh.WmStrut, root Rect) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
		LeftEndY:   uint(root.Height - 1),
		RightEndY:  uint(root.Height - 1),
		TopEndX:    uint(root.Width - 1),
		BottomEndX: uint(root.Width - 1),
	}
}

// applyStruts shrinks mon by the deepest reservation on each edge that
// overlaps it. ok is false when no strut touches mon.
func applyStruts(mon, root Rect, struts []ewmh.WmStrutPartial) (Rect, bool) {
	var left, right, top, bottom int
	for _, sp := range struts {
		if sp.Top > 0 {
			band := Rect{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)}
			top = max(top, mon.intersect(band).Height)
		}
		if sp.Bottom > 0 {
			band := Rect{X: int(sp.BottomStartX), Y: root.Height - int(sp.Bottom), Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom)}
			bottom = max(bottom, mon.intersect(band).Height)
		}
		if sp.Left > 0 {
			band := Rect{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}
			left = max(left, mon.intersect(band).Width)
		}
		if sp.Right > 0 {
			band := Rect{X: root.Width - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1}
			right = max(right, mon.intersect(band).Width)
		}
	}
	if left == 0 && right == 0 && top == 0 && bottom == 0 {
		return mon, false
	}

	return Rect{
		X:      mon.X + left,
		Y:      mon.Y + top,
		Width:  max(mon.Width-left-right, 1),
		Height: max(mon.Height-top-bottom, 1),
	}, true
}

// clipWorkArea intersects the desktop-wide work area with one monitor. A
// work area that misses the monitor leaves it whole.
func clipWorkArea(mon, wa Rect) Rect {
	if clipped := mon.intersect(wa); !clipped.empty() {
		return clipped
	}
	return mon
}
