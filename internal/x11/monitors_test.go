package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name string
		b    Rect
		want Rect
	}{
		{"overlap", Rect{X: 50, Y: 60, Width: 100, Height: 100}, Rect{X: 50, Y: 60, Width: 50, Height: 40}},
		{"contained", Rect{X: 10, Y: 10, Width: 5, Height: 5}, Rect{X: 10, Y: 10, Width: 5, Height: 5}},
		{"touching edge", Rect{X: 100, Y: 0, Width: 10, Height: 10}, Rect{}},
		{"disjoint", Rect{X: 200, Y: 200, Width: 10, Height: 10}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.intersect(tt.b); got != tt.want {
				t.Fatalf("intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyStruts(t *testing.T) {
	// Two monitors side by side, 1920x1080 each.
	root := Rect{Width: 3840, Height: 1080}
	left := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	// 40px bottom panel spanning only the left monitor.
	bottomPanel := ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 0, BottomEndX: 1919}
	// 30px top panel across the whole root.
	topPanel := ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 3839}

	tests := []struct {
		name   string
		mon    Rect
		struts []ewmh.WmStrutPartial
		want   Rect
		ok     bool
	}{
		{"no struts", left, nil, left, false},
		{"bottom panel on its monitor", left, []ewmh.WmStrutPartial{bottomPanel}, Rect{X: 0, Y: 0, Width: 1920, Height: 1040}, true},
		{"bottom panel misses other monitor", right, []ewmh.WmStrutPartial{bottomPanel}, right, false},
		{"top and bottom", left, []ewmh.WmStrutPartial{bottomPanel, topPanel}, Rect{X: 0, Y: 30, Width: 1920, Height: 1010}, true},
		{"deepest strut per edge wins", right, []ewmh.WmStrutPartial{topPanel, {Top: 50, TopStartX: 1920, TopEndX: 3839}}, Rect{X: 1920, Y: 50, Width: 1920, Height: 1030}, true},
		{"right dock", right, []ewmh.WmStrutPartial{{Right: 64, RightStartY: 0, RightEndY: 1079}}, Rect{X: 1920, Y: 0, Width: 1856, Height: 1080}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := applyStruts(tt.mon, root, tt.struts)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("applyStruts = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFullEdgeStrutSpansRoot(t *testing.T) {
	root := Rect{Width: 1920, Height: 1080}
	sp := fullEdgeStrut(&ewmh.WmStrut{Bottom: 48}, root)
	got, ok := applyStruts(Rect{Width: 1920, Height: 1080}, root, []ewmh.WmStrutPartial{sp})
	if !ok || got.Height != 1032 {
		t.Fatalf("applyStruts = %+v, %v", got, ok)
	}
}

func TestClipWorkArea(t *testing.T) {
	mon := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	if got := clipWorkArea(mon, Rect{X: 0, Y: 0, Width: 3840, Height: 1040}); got != (Rect{X: 1920, Y: 0, Width: 1920, Height: 1040}) {
		t.Fatalf("clipWorkArea = %+v", got)
	}
	if got := clipWorkArea(mon, Rect{X: 0, Y: 0, Width: 1920, Height: 1040}); got != mon {
		t.Fatalf("disjoint work area should leave monitor whole, got %+v", got)
	}
}

func TestMoveWithFallback(t *testing.T) {
	wmErr := errors.New("no window manager")
	badWindow := errors.New("BadWindow")

	tests := []struct {
		name         string
		request      error
		direct       error
		wantDirect   bool
		wantErr      bool
		wantContains []error
	}{
		{"window manager accepts", nil, badWindow, false, false, nil},
		{"direct move succeeds", wmErr, nil, true, false, nil},
		{"both fail", wmErr, badWindow, true, true, []error{wmErr, badWindow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calledDirect := false
			err := moveWithFallback(
				func() error { return tt.request },
				func() error {
					calledDirect = true
					return tt.direct
				},
			)
			if calledDirect != tt.wantDirect {
				t.Fatalf("direct called = %v, want %v", calledDirect, tt.wantDirect)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.wantContains {
				if !errors.Is(err, want) {
					t.Fatalf("err %v does not wrap %v", err, want)
				}
			}
		})
	}
}
