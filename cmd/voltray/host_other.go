//go:build !linux && !windows

package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/1broseidon/voltray/internal/notify"
)

// headlessHost serves IPC only.
type headlessHost struct{}

func newHost(hostOptions) (host, error) {
	return headlessHost{}, nil
}

func (headlessHost) Notifier() notify.Notifier { return nil }

func (headlessHost) Run(ctx context.Context) error {
	log.Println("No tray or hotkey support on this platform; serving IPC only")
	<-ctx.Done()
	return ctx.Err()
}

func daemonLogOutput() (io.Writer, func()) {
	return os.Stderr, func() {}
}
