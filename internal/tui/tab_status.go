package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/1broseidon/voltray/internal/ipc"
)

const statusPollInterval = time.Second

// statusTickMsg asks the status tab to poll the daemon.
type statusTickMsg struct{}

// statusLoadedMsg carries a GET_STATUS reply. Only replies to a scheduled
// poll schedule the next one, so one-off refreshes never fork the chain.
type statusLoadedMsg struct {
	status *ipc.StatusData
	err    error
	poll   bool
}

// actionDoneMsg reports the outcome of a toggle, close or reload.
type actionDoneMsg struct {
	text string
	err  error
}

// clearMessageMsg clears the action message after a delay.
type clearMessageMsg struct{}

// StatusTab shows live daemon state and drives the mixer.
type StatusTab struct {
	daemon Daemon
	now    func() time.Time

	status  *ipc.StatusData
	err     error
	message string

	width  int
	height int
}

// NewStatusTab creates a StatusTab polling daemon.
func NewStatusTab(daemon Daemon) StatusTab {
	return StatusTab{daemon: daemon, now: time.Now}
}

// Connected reports whether the last poll reached the daemon.
func (s StatusTab) Connected() bool {
	return s.err == nil && s.status != nil
}

// MixerState returns the mixer state from the last poll.
func (s StatusTab) MixerState() string {
	if s.status == nil {
		return ""
	}
	return s.status.State
}

// Init starts polling.
func (s StatusTab) Init() tea.Cmd {
	return s.fetch(true)
}

func (s StatusTab) fetch(poll bool) tea.Cmd {
	daemon := s.daemon
	return func() tea.Msg {
		st, err := daemon.GetStatus()
		return statusLoadedMsg{status: st, err: err, poll: poll}
	}
}

func pollLater() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// Update implements tea.Model. Poll replies are handled on every tab so the
// status bar stays current.
func (s StatusTab) Update(msg tea.Msg) (StatusTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case statusTickMsg:
		return s, s.fetch(true)

	case statusLoadedMsg:
		s.status, s.err = msg.status, msg.err
		if s.err != nil {
			s.status = nil
		}
		if msg.poll {
			return s, pollLater()
		}
		return s, nil

	case actionDoneMsg:
		if msg.err != nil {
			s.message = "Error: " + msg.err.Error()
		} else {
			s.message = msg.text
		}
		return s, tea.Batch(s.fetch(false), tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearMessageMsg{}
		}))

	case clearMessageMsg:
		s.message = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "t", "enter":
			return s, s.toggle()
		case "c":
			return s, s.close()
		case "r":
			return s, s.reload()
		}
	}
	return s, nil
}

func (s StatusTab) toggle() tea.Cmd {
	daemon := s.daemon
	return func() tea.Msg {
		result, err := daemon.Toggle()
		return actionDoneMsg{text: "Mixer " + result, err: err}
	}
}

func (s StatusTab) close() tea.Cmd {
	daemon := s.daemon
	return func() tea.Msg {
		closed, err := daemon.Close()
		text := "Mixer was not open"
		if closed {
			text = "Mixer closed"
		}
		return actionDoneMsg{text: text, err: err}
	}
}

func (s StatusTab) reload() tea.Cmd {
	daemon := s.daemon
	return func() tea.Msg {
		return actionDoneMsg{text: "Daemon reloaded config", err: daemon.Reload()}
	}
}

// View implements tea.Model.
func (s StatusTab) View() string {
	var lines []string
	if !s.Connected() {
		lines = append(lines, "", dimStyle.Render("  The voltray daemon is not running."))
		if s.err != nil {
			lines = append(lines, dimStyle.Render("  "+s.err.Error()))
		}
		lines = append(lines, "", dimStyle.Render("  Start it with 'voltray daemon'."))
	} else {
		lines = append(lines, "")
		lines = append(lines, s.statusLines(s.now())...)
		lines = append(lines, "", dimStyle.Render("  t/enter: toggle mixer  c: close  r: reload daemon config"))
	}
	if s.message != "" {
		style := valueStyle
		if strings.HasPrefix(s.message, "Error:") {
			style = errorStyle
		}
		lines = append(lines, "", "  "+style.Render(s.message))
	}

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (s StatusTab) statusLines(now time.Time) []string {
	st := s.status
	started := now.Add(-time.Duration(st.UptimeSeconds) * time.Second)

	lines := []string{
		row("Daemon", fmt.Sprintf("pid %d, up since %s", st.DaemonPID, humanize.RelTime(started, now, "ago", "from now"))),
		row("Mixer", st.State),
		row("Executable", displayOrDefault(st.MixerPath, "(default)")),
	}
	if st.PID != 0 {
		placed := "not yet"
		if st.Placed {
			placed = "yes"
		}
		lines = append(lines,
			row("Process", fmt.Sprintf("pid %d", st.PID)),
			row("Opened", humanize.RelTime(st.StartedAt, now, "ago", "from now")),
			row("Display", st.Display),
			row("Anchor", fmt.Sprintf("%d,%d", st.AnchorX, st.AnchorY)),
			row("Placed", placed),
		)
	}
	lines = append(lines, row("Toggles", humanize.Comma(int64(st.Toggles))))
	if st.LastError != "" {
		lines = append(lines, labelStyle.Render("Last error")+errorStyle.Render(st.LastError))
	}
	return lines
}
