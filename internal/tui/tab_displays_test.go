package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/voltray/internal/config"
	"github.com/1broseidon/voltray/internal/platform"
)

func keyEsc() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEsc} }

var testDisplays = []platform.Display{
	{
		ID: 0, Name: "eDP-1", Primary: true,
		Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		Usable: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
	},
	{
		ID: 1, Name: "HDMI-1",
		Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440},
		Usable: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440},
	},
}

func TestBuildDisplayItems(t *testing.T) {
	items := buildDisplayItems(testDisplays, 8)
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}

	primary := items[0].(displayItem)
	if primary.Title() != "eDP-1 (primary)" {
		t.Errorf("title = %q", primary.Title())
	}
	if primary.anchor != (platform.Point{X: 1912, Y: 1032}) {
		t.Errorf("anchor = %v", primary.anchor)
	}
	if primary.zone != (platform.Rect{X: 960, Y: 540, Width: 960, Height: 540}) {
		t.Errorf("zone = %v", primary.zone)
	}

	second := items[1].(displayItem)
	if second.Description() != "2560x1440 at 1920,0" {
		t.Errorf("description = %q", second.Description())
	}
	if second.zone.X != 1920+1280 || second.zone.Y != 720 {
		t.Errorf("zone = %v", second.zone)
	}
}

func TestDisplaysTab_LoadAndRepad(t *testing.T) {
	calls := 0
	source := func() ([]platform.Display, error) {
		calls++
		return testDisplays, nil
	}
	d := NewDisplaysTab(source, config.DefaultConfig())
	d, _ = d.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	d, _ = d.Update(d.Init()())
	if calls != 1 || len(d.list.Items()) != 2 {
		t.Fatalf("calls=%d items=%d", calls, len(d.list.Items()))
	}

	cfg := config.DefaultConfig()
	cfg.Placement.PadPX = 20
	d.SetConfig(cfg)
	item := d.list.Items()[0].(displayItem)
	if item.anchor != (platform.Point{X: 1900, Y: 1020}) {
		t.Fatalf("anchor after repad = %v", item.anchor)
	}

	view := d.View()
	for _, want := range []string{"Anchor", "1900,1020", "Safe Zone", "Launch Hint"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := d.Update(runeKey("r"))
	if cmd == nil {
		t.Fatalf("'r' should refresh")
	}
}

func TestDisplaysTab_ErrorKeepsPreviousTopology(t *testing.T) {
	d := NewDisplaysTab(func() ([]platform.Display, error) { return nil, nil }, nil)
	d, _ = d.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	d, _ = d.Update(displaysLoadedMsg{displays: testDisplays})
	d, _ = d.Update(displaysLoadedMsg{err: errors.New("xrandr unavailable")})

	if d.err == nil {
		t.Fatalf("load error dropped")
	}

	if len(d.list.Items()) != 2 {
		t.Fatalf("items = %d, want previous topology", len(d.list.Items()))
	}
	if !strings.Contains(d.View(), "xrandr unavailable") {
		t.Fatalf("error not rendered")
	}
}

func TestDisplaysTab_NoSource(t *testing.T) {
	d := NewDisplaysTab(nil, nil)
	if d.Init() != nil {
		t.Fatalf("nil source should not query")
	}
	if !strings.Contains(d.View(), "not available") {
		t.Fatalf("view = %q", d.View())
	}
}
