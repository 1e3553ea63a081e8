package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/voltray/internal/config"
	"github.com/1broseidon/voltray/internal/ipc"
)

// Daemon is the IPC surface the TUI drives. *ipc.Client satisfies it.
type Daemon interface {
	Toggle() (string, error)
	Close() (bool, error)
	Reload() error
	GetStatus() (*ipc.StatusData, error)
}

// Options configures the TUI.
type Options struct {
	// ConfigPath is the file edited by the Settings tab.
	ConfigPath string
	// Config is the loaded config; nil means it failed to load.
	Config   *config.Config
	LoadErr  error
	Daemon   Daemon
	Displays DisplaySource
}

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	cfg        *config.Config
	loadErr    error
	daemon     Daemon

	activeTab Tab

	statusTab   StatusTab
	settingsTab SettingsTab
	displaysTab DisplaysTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

func newModel(opts Options) model {
	m := model{
		configPath: opts.ConfigPath,
		cfg:        opts.Config,
		loadErr:    opts.LoadErr,
		daemon:     opts.Daemon,
		activeTab:  TabStatus,
	}
	if m.cfg != nil {
		m.originalConfig = m.cfg.Clone()
	}

	m.statusTab = NewStatusTab(opts.Daemon)
	m.settingsTab = NewSettingsTab(m.cfg)
	m.displaysTab = NewDisplaysTab(opts.Displays, m.cfg)
	return m
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.statusTab.Init(), m.displaysTab.Init())
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.statusTab, _ = m.statusTab.Update(subMsg)
	m.settingsTab, _ = m.settingsTab.Update(subMsg)
	m.displaysTab, _ = m.displaysTab.Update(subMsg)
	return m
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Background results are routed regardless of the active tab.
	switch msg.(type) {
	case statusTickMsg, statusLoadedMsg, actionDoneMsg, clearMessageMsg:
		var cmd tea.Cmd
		m.statusTab, cmd = m.statusTab.Update(msg)
		return m, cmd
	case displaysLoadedMsg:
		var cmd tea.Cmd
		m.displaysTab, cmd = m.displaysTab.Update(msg)
		return m, cmd
	}

	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(msg, m.cfg, m.configPath, m.daemon, m.statusTab.Connected())
			// After a successful save the file matches memory again.
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = m.cfg.Clone()
			}
		case tea.WindowSizeMsg:
			m = m.resize(msg)
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if m.cfg != nil {
			m.saveOverlay.Show(m.originalConfig, m.cfg)
		}
		return m, nil
	}

	// The settings form consumes keys; only ctrl+c escapes to quit.
	if m.activeTab == TabSettings && m.settingsTab.Editing() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			return m.resize(msg), nil
		}
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		if !m.settingsTab.Editing() {
			m.displaysTab.SetConfig(m.cfg)
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabStatus
			return m, nil
		case "2":
			m.activeTab = TabSettings
			return m, nil
		case "3":
			m.activeTab = TabDisplays
			return m, nil
		}

	case tea.WindowSizeMsg:
		return m.resize(msg), nil
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabStatus:
		m.statusTab, cmd = m.statusTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	case TabDisplays:
		m.displaysTab, cmd = m.displaysTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.statusTab.Connected(), m.statusTab.MixerState(), m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.activeTab == TabSettings && m.cfg == nil && m.loadErr != nil:
		content = lipgloss.NewStyle().Padding(1, 2).Render(errorStyle.Render("Config error: " + m.loadErr.Error()))
	case m.activeTab == TabSettings:
		content = m.settingsTab.View()
	case m.activeTab == TabDisplays:
		content = m.displaysTab.View()
	default:
		content = m.statusTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
