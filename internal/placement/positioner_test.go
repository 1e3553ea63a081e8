package placement

import (
	"errors"
	"testing"

	"github.com/1broseidon/voltray/internal/platform"
)

type fakeBackend struct {
	platform.Backend
	rect    platform.Rect
	rectErr error
	moveErr error
	moved   []platform.Point

	findResults []platform.WindowID
	findErr     error
	findCalls   int
}

func (f *fakeBackend) WindowRect(platform.WindowID) (platform.Rect, error) {
	return f.rect, f.rectErr
}

func (f *fakeBackend) MoveWindow(_ platform.WindowID, p platform.Point) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moved = append(f.moved, p)
	return nil
}

func (f *fakeBackend) FindWindowByPID(int) (platform.WindowID, bool, error) {
	f.findCalls++
	if f.findErr != nil {
		return 0, false, f.findErr
	}
	if f.findCalls <= len(f.findResults) {
		id := f.findResults[f.findCalls-1]
		return id, id != 0, nil
	}
	return 0, false, nil
}

func TestClampTopLeft_Scenario(t *testing.T) {
	bounds := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	got := ClampTopLeft(bounds, platform.Point{X: 1912, Y: 1032}, 300, 400)
	want := platform.Point{X: 1612, Y: 632}
	if got != want {
		t.Fatalf("ClampTopLeft = %v, want %v", got, want)
	}
}

func TestClampTopLeft_StaysInsideBounds(t *testing.T) {
	bounds := []platform.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: -1280, Y: -100, Width: 1280, Height: 1024},
	}
	sizes := []int{0, 1, 300, 640, 1024}
	for _, b := range bounds {
		for _, w := range sizes {
			for _, h := range sizes {
				for ax := b.Left() - 50; ax <= b.Right()+50; ax += 97 {
					for ay := b.Top() - 50; ay <= b.Bottom()+50; ay += 89 {
						p := ClampTopLeft(b, platform.Point{X: ax, Y: ay}, w, h)
						if p.X < b.Left() || p.Y < b.Top() || p.X+w > b.Right() || p.Y+h > b.Bottom() {
							t.Fatalf("window %dx%d at %v escapes %+v (anchor %d,%d)", w, h, p, b, ax, ay)
						}
					}
				}
			}
		}
	}
}

func TestClampTopLeft_OversizedWindowPrefersRightBottom(t *testing.T) {
	bounds := platform.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	got := ClampTopLeft(bounds, platform.Point{X: 90, Y: 90}, 150, 120)
	want := platform.Point{X: -50, Y: -20}
	if got != want {
		t.Fatalf("ClampTopLeft = %v, want %v", got, want)
	}
}

func TestPositionerPlace(t *testing.T) {
	fb := &fakeBackend{rect: platform.Rect{X: 500, Y: 500, Width: 300, Height: 400}}
	p := Positioner{Backend: fb}

	got, err := p.Place(42, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, platform.Point{X: 1912, Y: 1032})
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	if got != (platform.Point{X: 1612, Y: 632}) {
		t.Fatalf("Place = %v, want {1612 632}", got)
	}
	if len(fb.moved) != 1 || fb.moved[0] != got {
		t.Fatalf("moves = %v, want exactly one move to %v", fb.moved, got)
	}
}

func TestPositionerPlace_RectFailureIsNoop(t *testing.T) {
	fb := &fakeBackend{rectErr: errors.New("gone")}
	p := Positioner{Backend: fb}

	if _, err := p.Place(42, platform.Rect{Width: 10, Height: 10}, platform.Point{}); err == nil {
		t.Fatal("expected error when window rect is unreadable")
	}
	if len(fb.moved) != 0 {
		t.Fatalf("expected no move, got %v", fb.moved)
	}
}
