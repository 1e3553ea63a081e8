//go:build linux

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/1broseidon/voltray/internal/hotkeys"
	"github.com/1broseidon/voltray/internal/notify"
	"github.com/1broseidon/voltray/internal/platform"
)

// x11Host binds the optional global hotkey and runs the X11 event loop that
// delivers it.
type x11Host struct {
	backend  *platform.LinuxBackend
	hotkey   string
	toggler  hotkeys.Toggler
	notifier notify.Notifier
}

func newHost(opts hostOptions) (host, error) {
	backend, ok := opts.Backend.(*platform.LinuxBackend)
	if !ok {
		return nil, fmt.Errorf("unexpected backend %T", opts.Backend)
	}

	h := &x11Host{
		backend: backend,
		hotkey:  opts.Config.Hotkey,
		toggler: opts.Toggler,
	}
	if opts.Config.Notifications {
		dbusNotifier, err := notify.NewDBus(appName)
		if err != nil {
			opts.Logger.Warn("desktop notifications unavailable", "error", err)
		} else {
			h.notifier = dbusNotifier
		}
	}
	return h, nil
}

func (h *x11Host) Notifier() notify.Notifier { return h.notifier }

func (h *x11Host) Run(ctx context.Context) error {
	if h.hotkey != "" {
		handler, err := hotkeys.NewHandler(h.backend, h.toggler)
		if err != nil {
			return err
		}
		if err := handler.Register(h.hotkey); err != nil {
			return fmt.Errorf("failed to register hotkey: %w", err)
		}
		log.Printf("Toggle hotkey registered: %s", h.hotkey)
	} else {
		log.Println("No hotkey configured; use 'voltray toggle' or bind it in your desktop")
	}

	go func() {
		<-ctx.Done()
		h.backend.QuitEventLoop()
	}()

	log.Println("Entering event loop...")
	h.backend.EventLoop()
	return ctx.Err()
}

func daemonLogOutput() (io.Writer, func()) {
	return os.Stderr, func() {}
}
