//go:build !windows

package tray

import (
	"context"
	"fmt"
	"runtime"

	"github.com/1broseidon/voltray/internal/notify"
	"github.com/1broseidon/voltray/internal/platform"
)

// Tray is only implemented on Windows.
type Tray struct{}

var _ notify.Notifier = (*Tray)(nil)

// New reports that no notification-area host exists on this platform.
func New(opts Options) (*Tray, error) {
	if _, err := newCommands(opts); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("tray: %w: %s", platform.ErrUnsupported, runtime.GOOS)
}

func (t *Tray) Run(ctx context.Context) error {
	return fmt.Errorf("tray: %w", platform.ErrUnsupported)
}

func (t *Tray) Notify(title, message string, level notify.Level) error {
	return fmt.Errorf("tray: %w", platform.ErrUnsupported)
}

func shellOpen(uri string) error {
	return fmt.Errorf("open %s: %w", uri, platform.ErrUnsupported)
}
