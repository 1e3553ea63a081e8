package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/voltray/internal/config"
	"github.com/1broseidon/voltray/internal/placement"
	"github.com/1broseidon/voltray/internal/platform"
)

// DisplaySource returns the current display topology.
type DisplaySource func() ([]platform.Display, error)

// displaysLoadedMsg carries a topology query result.
type displaysLoadedMsg struct {
	displays []platform.Display
	err      error
}

// displayItem implements list.Item for the display picker.
type displayItem struct {
	display platform.Display
	anchor  platform.Point
	zone    platform.Rect
}

func (i displayItem) Title() string {
	if i.display.Primary {
		return i.display.Name + " (primary)"
	}
	return i.display.Name
}

func (i displayItem) Description() string {
	b := i.display.Bounds
	return fmt.Sprintf("%dx%d at %d,%d", b.Width, b.Height, b.X, b.Y)
}

func (i displayItem) FilterValue() string { return i.display.Name }

// DisplaysTab previews where the mixer would open on each display.
type DisplaysTab struct {
	list   list.Model
	source DisplaySource
	pad    int

	displays []platform.Display
	err      error

	width  int
	height int
}

// NewDisplaysTab creates a DisplaysTab. A nil source shows a notice instead.
func NewDisplaysTab(source DisplaySource, cfg *config.Config) DisplaysTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Displays"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	d := DisplaysTab{list: l, source: source}
	d.SetConfig(cfg)
	return d
}

// SetConfig picks up the corner padding and recomputes anchors.
func (d *DisplaysTab) SetConfig(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d.pad = cfg.Placement.PadPX
	d.list.SetItems(buildDisplayItems(d.displays, d.pad))
}

// Init queries the topology once.
func (d DisplaysTab) Init() tea.Cmd {
	return d.refresh()
}

func (d DisplaysTab) refresh() tea.Cmd {
	source := d.source
	if source == nil {
		return nil
	}
	return func() tea.Msg {
		displays, err := source()
		return displaysLoadedMsg{displays: displays, err: err}
	}
}

func buildDisplayItems(displays []platform.Display, pad int) []list.Item {
	items := make([]list.Item, 0, len(displays))
	for _, disp := range displays {
		anchor := placement.ComputeAnchor(disp, pad)
		items = append(items, displayItem{
			display: disp,
			anchor:  anchor,
			zone:    placement.SafeZone(disp, anchor),
		})
	}
	return items
}

// Update implements tea.Model.
func (d DisplaysTab) Update(msg tea.Msg) (DisplaysTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.list.SetSize(d.listWidth(), d.height)
		return d, nil

	case displaysLoadedMsg:
		d.err = msg.err
		if msg.err == nil {
			d.displays = msg.displays
			d.list.SetItems(buildDisplayItems(d.displays, d.pad))
		}
		return d, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return d, d.refresh()
		}
	}

	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

func (d DisplaysTab) listWidth() int {
	w := d.width / 3
	if w < 24 {
		w = 24
	}
	return w
}

// View implements tea.Model.
func (d DisplaysTab) View() string {
	if d.source == nil {
		return lipgloss.NewStyle().
			Width(d.width).
			Height(d.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Display topology is not available on this platform")
	}

	detailW := d.width - d.listWidth() - 2
	if detailW < 20 {
		detailW = 20
	}

	var detail string
	switch item, ok := d.list.SelectedItem().(displayItem); {
	case d.err != nil:
		detail = errorStyle.Render("Error: " + d.err.Error())
	case ok:
		detail = renderDisplayDetail(item)
	default:
		detail = dimStyle.Render("No displays found")
	}

	right := lipgloss.NewStyle().
		Width(detailW).
		Height(d.height).
		Padding(1, 2).
		Render(detail + "\n\n" + dimStyle.Render("r: refresh"))

	return lipgloss.JoinHorizontal(lipgloss.Top, d.list.View(), right)
}

func renderDisplayDetail(item displayItem) string {
	rect := func(r platform.Rect) string {
		return fmt.Sprintf("%dx%d at %d,%d", r.Width, r.Height, r.X, r.Y)
	}
	lines := []string{
		row("Bounds", rect(item.display.Bounds)),
		row("Work Area", rect(item.display.Usable)),
		"",
		row("Anchor", fmt.Sprintf("%d,%d", item.anchor.X, item.anchor.Y)),
		row("Safe Zone", rect(item.zone)),
		row("Launch Hint", fmt.Sprintf("%d", placement.PackHint(item.anchor))),
	}
	return strings.Join(lines, "\n")
}
