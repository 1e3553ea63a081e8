//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsName   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsNotify = "org.freedesktop.Notifications.Notify"

	// DBusExpireMS matches the tray balloon's visible time.
	DBusExpireMS = 2500
)

type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBus posts desktop notifications on the session bus.
type DBus struct {
	AppName string
	obj     busObject
}

// NewDBus connects to the session bus. The connection is shared and stays
// open for the life of the process.
func NewDBus(appName string) (*DBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DBus{
		AppName: appName,
		obj:     conn.Object(notificationsName, dbus.ObjectPath(notificationsPath)),
	}, nil
}

func (d *DBus) Notify(title, message string, level Level) error {
	hints := map[string]dbus.Variant{
		"urgency":   dbus.MakeVariant(urgency(level)),
		"transient": dbus.MakeVariant(true),
	}
	call := d.obj.Call(notificationsNotify, 0,
		d.AppName,
		uint32(0),
		iconFor(level),
		title,
		message,
		[]string{},
		hints,
		int32(DBusExpireMS),
	)
	if call.Err != nil {
		return fmt.Errorf("failed to send notification: %w", call.Err)
	}
	return nil
}

func urgency(level Level) byte {
	switch level {
	case LevelInfo:
		return 0
	case LevelError:
		return 2
	default:
		return 1
	}
}

func iconFor(level Level) string {
	switch level {
	case LevelWarning:
		return "dialog-warning"
	case LevelError:
		return "dialog-error"
	default:
		return "audio-volume-medium"
	}
}
