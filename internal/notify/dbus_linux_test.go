package notify

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

type fakeBus struct {
	method string
	args   []interface{}
	err    error
}

func (f *fakeBus) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.method = method
	f.args = args
	return &dbus.Call{Err: f.err}
}

func TestDBus_NotifyArguments(t *testing.T) {
	bus := &fakeBus{}
	d := &DBus{AppName: "voltray", obj: bus}

	if err := d.Notify("Volume mixer", "could not start", LevelError); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if bus.method != notificationsNotify {
		t.Fatalf("method = %q", bus.method)
	}
	if len(bus.args) != 8 {
		t.Fatalf("got %d args, want 8", len(bus.args))
	}
	if bus.args[0] != "voltray" || bus.args[3] != "Volume mixer" || bus.args[4] != "could not start" {
		t.Fatalf("unexpected args %v", bus.args)
	}
	if bus.args[7] != int32(DBusExpireMS) {
		t.Fatalf("expire = %v, want %d", bus.args[7], DBusExpireMS)
	}
	hints := bus.args[6].(map[string]dbus.Variant)
	if hints["urgency"].Value() != byte(2) {
		t.Fatalf("urgency = %v, want 2", hints["urgency"].Value())
	}
}

func TestDBus_NotifyWrapsError(t *testing.T) {
	cause := errors.New("no such name")
	d := &DBus{AppName: "voltray", obj: &fakeBus{err: cause}}
	if err := d.Notify("x", "y", LevelInfo); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
