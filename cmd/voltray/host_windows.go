//go:build windows

package main

import (
	"context"
	"io"
	"os"

	"github.com/1broseidon/voltray/internal/notify"
	"github.com/1broseidon/voltray/internal/runtimepath"
	"github.com/1broseidon/voltray/internal/tray"
)

// trayHost runs the notification-area icon; its balloons double as the
// daemon's user-visible notifications.
type trayHost struct {
	tray *tray.Tray
}

func newHost(opts hostOptions) (host, error) {
	t, err := tray.New(tray.Options{
		Toggler:        opts.Toggler,
		Logger:         opts.Logger,
		Tip:            "Volume Mixer",
		StartupBalloon: opts.Config.StartupBalloon,
		OnExit:         opts.Exit,
	})
	if err != nil {
		return nil, err
	}
	return &trayHost{tray: t}, nil
}

func (h *trayHost) Notifier() notify.Notifier { return h.tray }

func (h *trayHost) Run(ctx context.Context) error {
	return h.tray.Run(ctx)
}

// daemonLogOutput tees logs into the runtime dir; a GUI build has no console.
func daemonLogOutput() (io.Writer, func()) {
	path, err := runtimepath.LogPath()
	if err != nil {
		return os.Stderr, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return os.Stderr, func() {}
	}
	return io.MultiWriter(os.Stderr, f), func() { f.Close() }
}
