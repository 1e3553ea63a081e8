// Package tray hosts the notification-area icon that toggles the mixer.
package tray

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/voltray/internal/controller"
	"github.com/1broseidon/voltray/internal/notify"
)

// Toggler is the controller operation bound to clicks and the menu.
type Toggler interface {
	Toggle(ctx context.Context) (controller.Result, error)
}

// Options configures a Tray.
type Options struct {
	Toggler Toggler
	Logger  *slog.Logger
	// Tip is the hover text of the icon.
	Tip string
	// StartupBalloon shows a short balloon once the icon is added.
	StartupBalloon bool
	// OnExit is called when the user picks Exit. It should cancel the
	// context passed to Run.
	OnExit func()
	// OpenURI launches a shell URI. Defaults to the platform shell.
	OpenURI func(uri string) error
}

const (
	defaultTip      = "Volume Mixer"
	startupTitle    = "Volume Mixer"
	startupMessage  = "Tray is running. Click the icon to open the volume mixer."
	toggleTimeout   = 10 * time.Second
	notifyTitleSize = 64
	notifyBodySize  = 256
)

// Menu command identifiers. Zero is reserved for "no selection".
const (
	cmdOpenMixer uintptr = iota + 1
	cmdSoundSettings
	cmdExit
)

type menuItem struct {
	id    uintptr
	label string
}

// menuItems is the popup menu, top to bottom. A zero id is a separator.
var menuItems = []menuItem{
	{cmdOpenMixer, "Open Volume Mixer"},
	{cmdSoundSettings, "Sound settings"},
	{0, ""},
	{cmdExit, "Exit"},
}

// soundSettingsURIs are tried in order; older builds lack the per-app page.
var soundSettingsURIs = []string{"ms-settings:apps-volume", "ms-settings:sound"}

// Balloon icon flags (NIIF_*).
const (
	balloonInfo    uint32 = 0x1
	balloonWarning uint32 = 0x2
	balloonError   uint32 = 0x3
)

func balloonIcon(level notify.Level) uint32 {
	switch level {
	case notify.LevelError:
		return balloonError
	case notify.LevelWarning:
		return balloonWarning
	default:
		return balloonInfo
	}
}

// truncate limits s to fit a fixed UTF-16 field including its terminator.
func truncate(s string, size int) string {
	r := []rune(s)
	if len(r) < size {
		return s
	}
	return string(r[:size-1])
}

// commands runs menu and click actions. It is independent of the window
// system so the dispatch rules can be exercised anywhere.
type commands struct {
	toggler Toggler
	logger  *slog.Logger
	openURI func(string) error
	onExit  func()
}

func newCommands(opts Options) (*commands, error) {
	if opts.Toggler == nil {
		return nil, errors.New("tray: toggler is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	openURI := opts.OpenURI
	if openURI == nil {
		openURI = shellOpen
	}
	onExit := opts.OnExit
	if onExit == nil {
		onExit = func() {}
	}
	return &commands{
		toggler: opts.Toggler,
		logger:  logger,
		openURI: openURI,
		onExit:  onExit,
	}, nil
}

// run executes a menu command. It reports whether the id was recognised.
func (c *commands) run(id uintptr) bool {
	switch id {
	case cmdOpenMixer:
		c.toggle()
	case cmdSoundSettings:
		if err := openFirst(soundSettingsURIs, c.openURI); err != nil {
			c.logger.Warn("open sound settings failed", "error", err)
		}
	case cmdExit:
		c.onExit()
	default:
		return false
	}
	return true
}

// toggle runs off the UI thread; the controller serialises toggles itself.
func (c *commands) toggle() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), toggleTimeout)
		defer cancel()
		res, err := c.toggler.Toggle(ctx)
		if err != nil {
			c.logger.Warn("tray toggle failed", "error", err)
			return
		}
		c.logger.Debug("tray toggle", "result", res)
	}()
}

func openFirst(uris []string, open func(string) error) error {
	var errs []error
	for _, uri := range uris {
		err := open(uri)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", uri, err))
	}
	return errors.Join(errs...)
}
