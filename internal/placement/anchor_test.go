package placement

import (
	"testing"

	"github.com/1broseidon/voltray/internal/platform"
)

func display(bounds, usable platform.Rect) platform.Display {
	return platform.Display{Bounds: bounds, Usable: usable}
}

func TestComputeAnchor_TaskbarEdges(t *testing.T) {
	full := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	tests := []struct {
		name   string
		usable platform.Rect
		want   platform.Point
	}{
		{"bottom taskbar", platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}, platform.Point{X: 1912, Y: 1032}},
		{"right taskbar", platform.Rect{X: 0, Y: 0, Width: 1860, Height: 1080}, platform.Point{X: 1852, Y: 1072}},
		{"top taskbar", platform.Rect{X: 0, Y: 40, Width: 1920, Height: 1040}, platform.Point{X: 1912, Y: 48}},
		{"left taskbar", platform.Rect{X: 60, Y: 0, Width: 1860, Height: 1080}, platform.Point{X: 68, Y: 1072}},
		{"no taskbar", full, platform.Point{X: 1912, Y: 1072}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAnchor(display(full, tt.usable), 8)
			if got != tt.want {
				t.Fatalf("ComputeAnchor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeAnchor_BottomBeatsTop(t *testing.T) {
	// Taskbars on both top and bottom: bottom/right precedence applies.
	d := display(
		platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		platform.Rect{X: 0, Y: 30, Width: 1920, Height: 1010},
	)
	got := ComputeAnchor(d, 8)
	want := platform.Point{X: 1912, Y: 1032}
	if got != want {
		t.Fatalf("ComputeAnchor = %v, want %v", got, want)
	}
}

func TestComputeAnchor_ZeroPadStaysOnLastPixel(t *testing.T) {
	full := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	got := ComputeAnchor(display(full, full), 0)
	want := platform.Point{X: 1919, Y: 1079}
	if got != want {
		t.Fatalf("ComputeAnchor = %v, want %v", got, want)
	}
	if zone := SafeZone(display(full, full), got); !zone.Contains(got) {
		t.Fatalf("zone %+v does not contain anchor %v", zone, got)
	}
}

func TestComputeAnchor_AlwaysWithinBounds(t *testing.T) {
	bounds := []platform.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: -1280, Y: -200, Width: 1280, Height: 1024},
		{X: 3840, Y: 0, Width: 10, Height: 10},
		{X: 0, Y: 0, Width: 1921, Height: 1081},
	}
	insets := []int{0, 5, 40, 2000}
	pads := []int{-4, 0, 8, 500}

	for _, b := range bounds {
		for _, top := range insets {
			for _, bottom := range insets {
				for _, pad := range pads {
					h := max(b.Height-top-bottom, 0)
					usable := platform.Rect{X: b.X, Y: b.Y + min(top, b.Height), Width: b.Width, Height: h}
					a := ComputeAnchor(display(b, usable), pad)
					if !b.Contains(a) {
						t.Fatalf("anchor %v outside bounds %+v (usable %+v, pad %d)", a, b, usable, pad)
					}
					if zone := SafeZone(display(b, usable), a); !zone.Contains(a) {
						t.Fatalf("zone %+v does not contain anchor %v (usable %+v, pad %d)", zone, a, usable, pad)
					}
				}
			}
		}
	}
}

func TestSafeZone_QuadrantContainingAnchor(t *testing.T) {
	d := display(
		platform.Rect{X: 100, Y: 50, Width: 1921, Height: 1081},
		platform.Rect{X: 100, Y: 50, Width: 1921, Height: 1041},
	)
	tests := []struct {
		name   string
		anchor platform.Point
		want   platform.Rect
	}{
		{"bottom-right", platform.Point{X: 2000, Y: 1000}, platform.Rect{X: 1060, Y: 590, Width: 961, Height: 541}},
		{"top-right", platform.Point{X: 2000, Y: 60}, platform.Rect{X: 1060, Y: 50, Width: 961, Height: 540}},
		{"bottom-left", platform.Point{X: 110, Y: 1000}, platform.Rect{X: 100, Y: 590, Width: 960, Height: 541}},
		{"top-left", platform.Point{X: 110, Y: 60}, platform.Rect{X: 100, Y: 50, Width: 960, Height: 540}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeZone(d, tt.anchor)
			if got != tt.want {
				t.Fatalf("SafeZone = %+v, want %+v", got, tt.want)
			}
			if !got.Contains(tt.anchor) {
				t.Fatalf("SafeZone %+v does not contain anchor %v", got, tt.anchor)
			}
		})
	}
}

func TestSafeZone_ForComputedAnchors(t *testing.T) {
	full := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	usables := []platform.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1040},
		{X: 0, Y: 40, Width: 1920, Height: 1040},
		{X: 60, Y: 0, Width: 1860, Height: 1080},
		full,
	}
	for _, u := range usables {
		for _, pad := range []int{0, 8} {
			d := display(full, u)
			anchor := ComputeAnchor(d, pad)
			zone := SafeZone(d, anchor)
			if zone.Width != full.Width/2 || zone.Height != full.Height/2 {
				t.Fatalf("zone %+v is not a quadrant of %+v", zone, full)
			}
			if !full.Contains(anchor) {
				t.Fatalf("anchor %v outside bounds %+v (pad %d)", anchor, full, pad)
			}
			if !zone.Contains(anchor) {
				t.Fatalf("zone %+v does not contain anchor %v (pad %d)", zone, anchor, pad)
			}
			if zone.Left() < full.Left() || zone.Right() > full.Right() || zone.Top() < full.Top() || zone.Bottom() > full.Bottom() {
				t.Fatalf("zone %+v escapes bounds %+v", zone, full)
			}
		}
	}
}

func TestPackHint(t *testing.T) {
	got := PackHint(platform.Point{X: 1912, Y: 1032})
	want := int32(1032<<16 | 1912)
	if got != want {
		t.Fatalf("PackHint = %d, want %d", got, want)
	}
}
