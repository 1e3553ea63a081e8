package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/voltray/internal/config"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // diff shown, waiting for confirmation
	saveResult            // outcome shown until the next key
)

var errNoChanges = errors.New("no changes to save")

var (
	overlayTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	overlayFooterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overlayOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	diffStyles = map[diffKind]lipgloss.Style{
		diffContext: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		diffRemoved: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		diffAdded:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
	diffMarks = map[diffKind]string{diffContext: "  ", diffRemoved: "- ", diffAdded: "+ "}
)

// SaveOverlay previews pending config edits as a diff and writes them on
// confirmation.
type SaveOverlay struct {
	phase        savePhase
	diffLines    []diffLine
	err          error
	reloaded     bool
	scrollOffset int
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// SaveSucceeded reports whether the last confirmation wrote the file.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Show diffs current against original. With nothing to save it goes straight
// to the result phase.
func (s *SaveOverlay) Show(original, current *config.Config) {
	*s = SaveOverlay{diffLines: computeDiffLines(original, current)}
	if len(s.diffLines) == 0 {
		s.phase, s.err = saveResult, errNoChanges
		return
	}
	s.phase = savePreview
}

// Update handles a key while the overlay is active. Confirming writes cfg to
// path and, when the daemon is connected, asks it to reload.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string, daemon Daemon, connected bool) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	if s.phase == saveResult {
		s.phase = saveHidden
		return s
	}

	switch km.String() {
	case "esc":
		s.phase = saveHidden
	case "enter", "y":
		s.err = cfg.SaveTo(path)
		if s.err == nil && connected && daemon != nil {
			s.reloaded = daemon.Reload() == nil
		}
		s.phase = saveResult
	case "up", "k":
		s.scrollOffset = max(s.scrollOffset-1, 0)
	case "down", "j":
		s.scrollOffset++
	}
	return s
}

// View renders the overlay centred in a width x height area.
func (s SaveOverlay) View(width, height int) string {
	var body string
	boxW := 60
	switch s.phase {
	case savePreview:
		boxW = 80
		body = s.previewBody(min(max(width-8, 30), boxW), height)
	case saveResult:
		body = s.resultBody()
	default:
		return ""
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(min(max(width-8, 30), boxW)).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) previewBody(boxW, height int) string {
	// Title, footer, blank separators, border and padding take ten rows.
	rows := max(height-10, 3)
	textW := max(boxW-8, 8)

	first := min(s.scrollOffset, max(len(s.diffLines)-rows, 0))
	last := min(first+rows, len(s.diffLines))

	var b strings.Builder
	b.WriteString(overlayTitleStyle.Render("Save Config: Pending Changes"))
	b.WriteString("\n\n")
	for i, dl := range s.diffLines[first:last] {
		if i > 0 {
			b.WriteByte('\n')
		}
		text := dl.text
		if len(text) > textW {
			text = text[:textW]
		}
		b.WriteString(diffStyles[dl.kind].Render(diffMarks[dl.kind] + text))
	}
	b.WriteString("\n\n")
	b.WriteString(overlayFooterStyle.Render("enter: save  esc: cancel  j/k: scroll"))
	return b.String()
}

func (s SaveOverlay) resultBody() string {
	var msg string
	switch {
	case s.err != nil:
		msg = errorStyle.Render("Error: " + s.err.Error())
	case s.reloaded:
		msg = overlayOKStyle.Render("Config saved successfully") + "\n" + overlayOKStyle.UnsetBold().Render("Daemon reloaded")
	default:
		msg = overlayOKStyle.Render("Config saved successfully")
	}
	return msg + "\n\n" + overlayFooterStyle.Render("press any key to dismiss")
}
