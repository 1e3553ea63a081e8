package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/voltray/internal/config"
)

// SettingsTab shows the effective config and edits it with a form. Edits
// only touch the in-memory config; ctrl-s writes it out.
type SettingsTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form
	fields  *settingsFields
}

// settingsFields holds the form-bound values (strings for huh, converted on
// submit). It lives behind a pointer because the tab is copied on every
// Update while the form keeps writing through the addresses it was given.
type settingsFields struct {
	mixerPath      string
	timeoutMS      string
	pollMS         string
	distancePX     string
	graceMS        string
	padPX          string
	monitor        string
	hotkey         string
	notifications  bool
	startupBalloon bool
	closeOnExit    bool
}

// NewSettingsTab creates a SettingsTab over cfg.
func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

// SetConfig updates the config reference.
func (s *SettingsTab) SetConfig(cfg *config.Config) {
	s.cfg = cfg
}

// Editing reports whether the form is capturing input.
func (s SettingsTab) Editing() bool {
	return s.editing
}

// Update implements tea.Model.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	return s.updateDisplay(msg)
}

func (s SettingsTab) updateDisplay(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && s.cfg != nil {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			s.fields = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		s.fields = nil
		return s, nil
	}

	return s, cmd
}

func loadFields(cfg *config.Config) *settingsFields {
	return &settingsFields{
		mixerPath:      cfg.Mixer.Path,
		timeoutMS:      strconv.Itoa(cfg.Watch.TimeoutMS),
		pollMS:         strconv.Itoa(cfg.Watch.PollMS),
		distancePX:     strconv.Itoa(cfg.Watch.DistancePX),
		graceMS:        strconv.Itoa(cfg.Watch.GraceMS),
		padPX:          strconv.Itoa(cfg.Placement.PadPX),
		monitor:        string(cfg.Placement.Monitor),
		hotkey:         cfg.Hotkey,
		notifications:  cfg.Notifications,
		startupBalloon: cfg.StartupBalloon,
		closeOnExit:    cfg.CloseOnExit,
	}
}

func (s *SettingsTab) startEditing() {
	s.fields = loadFields(s.cfg)
	f := s.fields

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("timeout_ms").
				Title("Timeout (ms)").
				Description("Stop watching the pointer after this long").
				Validate(positiveInt).
				Value(&f.timeoutMS),

			huh.NewInput().
				Key("distance_px").
				Title("Dismiss Distance (px)").
				Description("Pointer travel from the launch point that closes the mixer").
				Validate(nonNegativeInt).
				Value(&f.distancePX),

			huh.NewInput().
				Key("poll_ms").
				Title("Poll Interval (ms)").
				Validate(positiveInt).
				Value(&f.pollMS),

			huh.NewInput().
				Key("grace_ms").
				Title("Grace Period (ms)").
				Description("Pointer is ignored this long after launch").
				Validate(nonNegativeInt).
				Value(&f.graceMS),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("monitor").
				Title("Monitor").
				Description("Display the mixer opens on").
				Options(
					huh.NewOption("under the pointer", string(config.MonitorMouse)),
					huh.NewOption("primary", string(config.MonitorPrimary)),
				).
				Value(&f.monitor),

			huh.NewInput().
				Key("pad_px").
				Title("Corner Padding (px)").
				Validate(nonNegativeInt).
				Value(&f.padPX),

			huh.NewInput().
				Key("mixer_path").
				Title("Mixer Executable").
				Description("Empty selects the platform default").
				Value(&f.mixerPath),

			huh.NewInput().
				Key("hotkey").
				Title("Hotkey").
				Description("X11 key sequence, e.g. Mod4-v").
				Value(&f.hotkey),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("notifications").
				Title("Show failure notifications?").
				Value(&f.notifications),
			huh.NewConfirm().
				Key("startup_balloon").
				Title("Show startup balloon?").
				Value(&f.startupBalloon),
			huh.NewConfirm().
				Key("close_on_exit").
				Title("Close the mixer when voltray exits?").
				Value(&f.closeOnExit),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number greater than 0")
	}
	return nil
}

func nonNegativeInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number, 0 or more")
	}
	return nil
}

// applyForm copies validated form values onto the config.
func (s *SettingsTab) applyForm() {
	f := s.fields
	if s.cfg == nil || f == nil {
		return
	}

	setInt := func(dst *int, v string, floor int) {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= floor {
			*dst = n
		}
	}
	setInt(&s.cfg.Watch.TimeoutMS, f.timeoutMS, 1)
	setInt(&s.cfg.Watch.PollMS, f.pollMS, 1)
	setInt(&s.cfg.Watch.DistancePX, f.distancePX, 0)
	setInt(&s.cfg.Watch.GraceMS, f.graceMS, 0)
	setInt(&s.cfg.Placement.PadPX, f.padPX, 0)

	switch config.MonitorMode(f.monitor) {
	case config.MonitorMouse, config.MonitorPrimary:
		s.cfg.Placement.Monitor = config.MonitorMode(f.monitor)
	}
	s.cfg.Mixer.Path = strings.TrimSpace(f.mixerPath)
	s.cfg.Hotkey = strings.TrimSpace(f.hotkey)
	s.cfg.Notifications = f.notifications
	s.cfg.StartupBalloon = f.startupBalloon
	s.cfg.CloseOnExit = f.closeOnExit
}

// View implements tea.Model.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		return s.viewEditing()
	}
	return s.viewDisplay()
}

func (s SettingsTab) viewDisplay() string {
	cfg := s.cfg
	if cfg == nil {
		return lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No config loaded")
	}

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	lines := []string{
		"",
		row("Mixer", cfg.MixerPath()),
		row("Arguments", displayOrDefault(strings.Join(cfg.Mixer.Args, " "), "(default)")),
		"",
		row("Timeout", cfg.Timeout().String()),
		row("Dismiss Distance", fmt.Sprintf("%dpx", cfg.Watch.DistancePX)),
		row("Poll Interval", cfg.PollInterval().String()),
		row("Grace Period", cfg.Grace().String()),
		"",
		row("Monitor", string(cfg.Placement.Monitor)),
		row("Corner Padding", fmt.Sprintf("%dpx", cfg.Placement.PadPX)),
		row("Hotkey", displayOrDefault(cfg.Hotkey, "(none)")),
		"",
		row("Notifications", onOff(cfg.Notifications)),
		row("Startup Balloon", onOff(cfg.StartupBalloon)),
		row("Close On Exit", onOff(cfg.CloseOnExit)),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (s SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Settings") +
		dimStyle.Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(header + "\n\n" + s.form.View())
}
