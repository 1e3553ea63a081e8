package placement

import "github.com/1broseidon/voltray/internal/platform"

// ComputeAnchor returns the point the managed window's bottom-right corner
// should touch. The taskbar edge is detected by comparing the usable area with
// the full bounds; bottom/right wins over top, top over left.
func ComputeAnchor(d platform.Display, pad int) platform.Point {
	if pad < 0 {
		pad = 0
	}
	wa := d.Usable
	b := d.Bounds

	bottom := wa.Bottom() < b.Bottom()
	top := wa.Top() > b.Top()
	right := wa.Right() < b.Right()
	left := wa.Left() > b.Left()

	var anchor platform.Point
	switch {
	case bottom || right:
		anchor = platform.Point{X: wa.Right() - pad, Y: wa.Bottom() - pad}
	case top:
		anchor = platform.Point{X: wa.Right() - pad, Y: wa.Top() + pad}
	case left:
		anchor = platform.Point{X: wa.Left() + pad, Y: wa.Bottom() - pad}
	default:
		anchor = platform.Point{X: wa.Right() - pad, Y: wa.Bottom() - pad}
	}

	return clampPoint(anchor, b)
}

// SafeZone returns the quadrant of the display bounds that contains anchor.
// Pointer movement inside it never dismisses the window. On odd sizes the
// right and bottom quadrants take the extra pixel so the four tile the bounds.
func SafeZone(d platform.Display, anchor platform.Point) platform.Rect {
	b := d.Bounds
	halfW := b.Width / 2
	halfH := b.Height / 2

	zone := platform.Rect{X: b.X, Y: b.Y, Width: halfW, Height: halfH}
	if anchor.X >= b.X+halfW {
		zone.X = b.X + halfW
		zone.Width = b.Width - halfW
	}
	if anchor.Y >= b.Y+halfH {
		zone.Y = b.Y + halfH
		zone.Height = b.Height - halfH
	}
	return zone
}

// PackHint encodes a point the way SndVol's -t switch expects: y in the high
// word, x in the low word.
func PackHint(p platform.Point) int32 {
	return int32(uint32(p.Y&0xFFFF)<<16 | uint32(p.X&0xFFFF))
}

// clampPoint keeps p inside r. Right and Bottom are exclusive, so the last
// pixel row and column are the limit.
func clampPoint(p platform.Point, r platform.Rect) platform.Point {
	p.X = max(min(p.X, r.Right()-1), r.Left())
	p.Y = max(min(p.Y, r.Bottom()-1), r.Top())
	return p
}
