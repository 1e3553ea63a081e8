package platform

import (
	"errors"
	"testing"
)

func twoDisplays() []Display {
	return []Display{
		{
			ID:     0,
			Name:   "left",
			Bounds: Rect{X: -1280, Y: 0, Width: 1280, Height: 1024},
			Usable: Rect{X: -1280, Y: 0, Width: 1280, Height: 1024},
		},
		{
			ID:      1,
			Name:    "main",
			Primary: true,
			Bounds:  Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			Usable:  Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
		},
	}
}

func TestRectContains_RightAndBottomExclusive(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 20}, true},
		{Point{109, 69}, true},
		{Point{110, 30}, false},
		{Point{50, 70}, false},
		{Point{9, 30}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestResolveDisplay(t *testing.T) {
	displays := twoDisplays()
	tests := []struct {
		name          string
		p             Point
		preferPrimary bool
		wantName      string
	}{
		{"pointer on secondary", Point{-100, 500}, false, "left"},
		{"pointer on primary", Point{100, 500}, false, "main"},
		{"prefer primary ignores pointer", Point{-100, 500}, true, "main"},
		{"pointer off every display", Point{5000, 5000}, false, "main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDisplay(displays, tt.p, tt.preferPrimary)
			if got.Name != tt.wantName {
				t.Fatalf("ResolveDisplay = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestResolveDisplay_NoPrimaryFlagUsesFirst(t *testing.T) {
	displays := twoDisplays()
	displays[1].Primary = false

	got := ResolveDisplay(displays, Point{9999, 9999}, true)
	if got.Name != "left" {
		t.Fatalf("ResolveDisplay = %q, want first display", got.Name)
	}
}

func TestResolveDisplay_EmptyFallsBack(t *testing.T) {
	got := ResolveDisplay(nil, Point{}, false)
	if got != FallbackDisplay {
		t.Fatalf("ResolveDisplay(nil) = %+v, want fallback", got)
	}
}

type stubBackend struct {
	Backend
	pointer    Point
	pointerErr error
	displays   []Display
	displayErr error
}

func (s stubBackend) CursorPos() (Point, error) { return s.pointer, s.pointerErr }
func (s stubBackend) Displays() ([]Display, error) { return s.displays, s.displayErr }

func TestResolveDisplayFrom_PointerFailureUsesOrigin(t *testing.T) {
	b := stubBackend{pointerErr: errors.New("no pointer"), displays: twoDisplays()}

	d, p := ResolveDisplayFrom(b, false)
	if p != (Point{}) {
		t.Fatalf("pointer = %v, want origin", p)
	}
	if d.Name != "main" {
		t.Fatalf("display = %q, want main", d.Name)
	}
}

func TestResolveDisplayFrom_DisplayFailureUsesFallback(t *testing.T) {
	b := stubBackend{pointer: Point{3, 4}, displayErr: errors.New("randr gone")}

	d, p := ResolveDisplayFrom(b, false)
	if p != (Point{3, 4}) {
		t.Fatalf("pointer = %v, want {3 4}", p)
	}
	if d != FallbackDisplay {
		t.Fatalf("display = %+v, want fallback", d)
	}
}
