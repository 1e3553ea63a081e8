package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/1broseidon/voltray/internal/controller"
	"github.com/1broseidon/voltray/internal/ipc"
)

type fakeMenuDaemon struct {
	toggles int
	closed  bool
	err     error
}

func (f *fakeMenuDaemon) Toggle() (string, error) {
	f.toggles++
	return "opened", f.err
}

func (f *fakeMenuDaemon) Close() (bool, error) { return f.closed, f.err }

func (f *fakeMenuDaemon) Reload() error { return f.err }

func TestMenuItems(t *testing.T) {
	tests := []struct {
		name       string
		st         *ipc.StatusData
		wantLabel  string
		wantAction string
		wantActive bool
	}{
		{"idle offers open", &ipc.StatusData{Status: controller.Status{State: "idle"}}, "Open Volume Mixer", menuActionToggle, false},
		{"no status offers open", nil, "Open Volume Mixer", menuActionToggle, false},
		{"open mixer offers close", &ipc.StatusData{Status: controller.Status{State: "watching", PID: 99}}, "Close Volume Mixer", menuActionClose, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := menuItems(tt.st)
			if len(items) != 3 || !items[1].IsDivider || items[2].Action != menuActionReload {
				t.Fatalf("layout = %+v", items)
			}
			first := items[0]
			if first.Label != tt.wantLabel || first.Action != tt.wantAction || first.IsActive != tt.wantActive {
				t.Fatalf("first item = %+v", first)
			}
		})
	}
}

func TestDispatchMenuAction(t *testing.T) {
	tests := []struct {
		action string
		daemon *fakeMenuDaemon
		want   string
	}{
		{menuActionToggle, &fakeMenuDaemon{}, "opened\n"},
		{menuActionClose, &fakeMenuDaemon{closed: true}, "closed\n"},
		{menuActionClose, &fakeMenuDaemon{}, "not open\n"},
		{menuActionReload, &fakeMenuDaemon{}, "reloaded\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if err := dispatchMenuAction(tt.daemon, tt.action, &out); err != nil {
			t.Fatalf("%s: %v", tt.action, err)
		}
		if out.String() != tt.want {
			t.Fatalf("%s: output %q, want %q", tt.action, out.String(), tt.want)
		}
	}
}

func TestDispatchMenuAction_Errors(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("daemon busy")
	if err := dispatchMenuAction(&fakeMenuDaemon{err: boom}, menuActionToggle, &out); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if err := dispatchMenuAction(&fakeMenuDaemon{}, "explode", &out); err == nil {
		t.Fatalf("unknown action accepted")
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
}
