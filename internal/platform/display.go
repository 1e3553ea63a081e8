package platform

// FallbackDisplay is used when the display topology cannot be queried at all.
var FallbackDisplay = Display{
	ID:      0,
	Name:    "fallback",
	Primary: true,
	Bounds:  Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
	Usable:  Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
}

// ResolveDisplay picks the display containing p, or the primary display when
// preferPrimary is set or no display contains p. It always returns a usable
// display.
func ResolveDisplay(displays []Display, p Point, preferPrimary bool) Display {
	if len(displays) == 0 {
		return FallbackDisplay
	}

	if !preferPrimary {
		for _, d := range displays {
			if d.Bounds.Contains(p) {
				return d
			}
		}
	}

	return primaryOf(displays)
}

func primaryOf(displays []Display) Display {
	for _, d := range displays {
		if d.Primary {
			return d
		}
	}
	return displays[0]
}

// ResolveDisplayFrom queries the backend for the pointer and display topology
// and resolves the target display. A failed pointer query counts as (0,0).
// The pointer position used is returned alongside the display.
func ResolveDisplayFrom(b Backend, preferPrimary bool) (Display, Point) {
	pointer, err := b.CursorPos()
	if err != nil {
		pointer = Point{}
	}

	displays, err := b.Displays()
	if err != nil {
		displays = nil
	}

	return ResolveDisplay(displays, pointer, preferPrimary), pointer
}
