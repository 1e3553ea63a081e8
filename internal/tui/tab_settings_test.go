package tui

import (
	"strings"
	"testing"

	"github.com/1broseidon/voltray/internal/config"
)

func TestIntValidators(t *testing.T) {
	tests := []struct {
		in          string
		positive    bool
		nonNegative bool
	}{
		{"250", true, true},
		{" 42 ", true, true},
		{"0", false, true},
		{"-1", false, false},
		{"abc", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := positiveInt(tt.in) == nil; got != tt.positive {
			t.Errorf("positiveInt(%q) ok=%v, want %v", tt.in, got, tt.positive)
		}
		if got := nonNegativeInt(tt.in) == nil; got != tt.nonNegative {
			t.Errorf("nonNegativeInt(%q) ok=%v, want %v", tt.in, got, tt.nonNegative)
		}
	}
}

func TestSettingsTab_ApplyForm(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSettingsTab(cfg)
	s.fields = loadFields(cfg)

	s.fields.timeoutMS = "5000"
	s.fields.pollMS = "0" // below floor, ignored
	s.fields.distancePX = "0"
	s.fields.graceMS = "oops" // not a number, ignored
	s.fields.padPX = " 12 "
	s.fields.monitor = string(config.MonitorPrimary)
	s.fields.mixerPath = "  /usr/bin/pavucontrol  "
	s.fields.hotkey = "Mod4-v"
	s.fields.notifications = false
	s.fields.closeOnExit = false
	s.applyForm()

	def := config.DefaultConfig()
	if cfg.Watch.TimeoutMS != 5000 {
		t.Errorf("TimeoutMS = %d", cfg.Watch.TimeoutMS)
	}
	if cfg.Watch.PollMS != def.Watch.PollMS {
		t.Errorf("PollMS = %d, want unchanged %d", cfg.Watch.PollMS, def.Watch.PollMS)
	}
	if cfg.Watch.DistancePX != 0 {
		t.Errorf("DistancePX = %d", cfg.Watch.DistancePX)
	}
	if cfg.Watch.GraceMS != def.Watch.GraceMS {
		t.Errorf("GraceMS = %d, want unchanged", cfg.Watch.GraceMS)
	}
	if cfg.Placement.PadPX != 12 {
		t.Errorf("PadPX = %d", cfg.Placement.PadPX)
	}
	if cfg.Placement.Monitor != config.MonitorPrimary {
		t.Errorf("Monitor = %q", cfg.Placement.Monitor)
	}
	if cfg.Mixer.Path != "/usr/bin/pavucontrol" || cfg.Hotkey != "Mod4-v" {
		t.Errorf("path=%q hotkey=%q", cfg.Mixer.Path, cfg.Hotkey)
	}
	if cfg.Notifications || cfg.CloseOnExit || !cfg.StartupBalloon {
		t.Errorf("toggles = %v %v %v", cfg.Notifications, cfg.CloseOnExit, cfg.StartupBalloon)
	}
}

func TestSettingsTab_ApplyFormRejectsUnknownMonitor(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSettingsTab(cfg)
	s.fields = loadFields(cfg)
	s.fields.monitor = "leftmost"
	s.applyForm()
	if cfg.Placement.Monitor != config.MonitorMouse {
		t.Fatalf("Monitor = %q, want mouse", cfg.Placement.Monitor)
	}
}

func TestSettingsTab_ViewWithoutConfig(t *testing.T) {
	s := NewSettingsTab(nil)
	if !strings.Contains(s.View(), "No config loaded") {
		t.Fatalf("view = %q", s.View())
	}
	s, cmd := s.Update(runeKey("e"))
	if s.Editing() || cmd != nil {
		t.Fatalf("editing must not start without a config")
	}
}

func TestSettingsTab_EditAndCancel(t *testing.T) {
	s := NewSettingsTab(config.DefaultConfig())
	s, _ = s.Update(runeKey("e"))
	if !s.Editing() {
		t.Fatalf("'e' should open the form")
	}
	if s.fields.timeoutMS != "30000" {
		t.Fatalf("form not seeded from config: %q", s.fields.timeoutMS)
	}
	s, _ = s.Update(keyEsc())
	if s.Editing() {
		t.Fatalf("esc should close the form")
	}
}
