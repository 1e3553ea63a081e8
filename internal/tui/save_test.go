package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/voltray/internal/config"
)

func TestLCSDiff(t *testing.T) {
	got := lcsDiff([]string{"a", "b", "c"}, []string{"a", "B", "c"})
	want := []diffLine{
		{diffContext, "a"},
		{diffRemoved, "b"},
		{diffAdded, "B"},
		{diffContext, "c"},
	}
	if len(got) != len(want) {
		t.Fatalf("lcsDiff = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFilterDiffContext_ElidesDistantLines(t *testing.T) {
	lines := []diffLine{
		{diffAdded, "top"},
		{diffContext, "1"},
		{diffContext, "2"},
		{diffContext, "3"},
		{diffContext, "4"},
		{diffContext, "5"},
		{diffRemoved, "bottom"},
	}
	got := filterDiffContext(lines, 1)

	var texts []string
	for _, l := range got {
		texts = append(texts, l.text)
	}
	if strings.Join(texts, ",") != "top,1,...,5,bottom" {
		t.Fatalf("filtered = %v", texts)
	}
}

func TestFilterDiffContext_NoChanges(t *testing.T) {
	if got := filterDiffContext([]diffLine{{diffContext, "a"}}, 2); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestComputeDiffLines(t *testing.T) {
	orig := config.DefaultConfig()
	if got := computeDiffLines(orig, orig.Clone()); got != nil {
		t.Fatalf("identical configs diffed: %+v", got)
	}
	if got := computeDiffLines(nil, orig); got != nil {
		t.Fatalf("nil original diffed: %+v", got)
	}

	curr := orig.Clone()
	curr.Placement.PadPX = 16

	var removed, added bool
	for _, l := range computeDiffLines(orig, curr) {
		switch {
		case l.kind == diffRemoved && strings.TrimSpace(l.text) == "pad_px: 8":
			removed = true
		case l.kind == diffAdded && strings.TrimSpace(l.text) == "pad_px: 16":
			added = true
		}
	}
	if !removed || !added {
		t.Fatalf("pad_px change not in diff (removed=%v added=%v)", removed, added)
	}
}

func TestSaveOverlay_WritesAndReloads(t *testing.T) {
	tests := []struct {
		name        string
		connected   bool
		reloadErr   error
		wantReloads int
		wantFlag    bool
	}{
		{"daemon connected", true, nil, 1, true},
		{"daemon reload fails", true, errors.New("boom"), 1, false},
		{"daemon not running", false, nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "config.yaml")
			d := &fakeDaemon{reloadErr: tt.reloadErr}

			orig := config.DefaultConfig()
			curr := orig.Clone()
			curr.Watch.DistancePX = 450

			var s SaveOverlay
			s.Show(orig, curr)
			if s.phase != savePreview {
				t.Fatalf("phase = %v, want preview", s.phase)
			}

			s = s.Update(tea.KeyMsg{Type: tea.KeyEnter}, curr, path, d, tt.connected)
			if !s.SaveSucceeded() {
				t.Fatalf("save failed: %v", s.err)
			}
			if d.reloads != tt.wantReloads || s.reloaded != tt.wantFlag {
				t.Fatalf("reloads=%d reloaded=%v, want %d %v", d.reloads, s.reloaded, tt.wantReloads, tt.wantFlag)
			}

			res, err := config.LoadFromPath(path)
			if err != nil {
				t.Fatalf("LoadFromPath: %v", err)
			}
			if res.Config.Watch.DistancePX != 450 {
				t.Fatalf("saved distance = %d", res.Config.Watch.DistancePX)
			}
		})
	}
}

func TestSaveOverlay_EscCancels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	orig := config.DefaultConfig()
	curr := orig.Clone()
	curr.Hotkey = "Mod4-v"

	var s SaveOverlay
	s.Show(orig, curr)
	s = s.Update(tea.KeyMsg{Type: tea.KeyEsc}, curr, path, nil, false)
	if s.Active() {
		t.Fatalf("esc should hide the overlay")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("config written on cancel: %v", err)
	}
}
