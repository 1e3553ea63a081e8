package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabStatus Tab = iota
	TabSettings
	TabDisplays
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabStatus:
		return "Status"
	case TabSettings:
		return "Settings"
	case TabDisplays:
		return "Displays"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(18).
			Align(lipgloss.Right).
			PaddingRight(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// renderTabBar renders "1:Status 2:Settings 3:Displays" with active
// highlighted.
func renderTabBar(active Tab, width int) string {
	cells := make([]string, 0, 2*int(tabCount))
	for t := Tab(0); t < tabCount; t++ {
		if t > 0 {
			cells = append(cells, tabGap.Render())
		}
		style := inactiveTabStyle
		if t == active {
			style = activeTabStyle
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d:%s", int(t)+1, t)))
	}
	return tabBarStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

// renderStatusBar renders the daemon connection and mixer state line.
func renderStatusBar(connected bool, mixerState string, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected"}
		if mixerState != "" {
			parts = append(parts, "mixer:"+mixerState)
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int) string {
	help := "tab/shift-tab: switch tabs  1-3: jump to tab  ctrl-s: save  q/ctrl-c: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
